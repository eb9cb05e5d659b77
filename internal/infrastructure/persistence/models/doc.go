// Package models contains the JSON document shapes stored in the document
// store. They are kept apart from domain entities so the domain layer stays
// free of encoding concerns; mappers convert in both directions.
//
// Layout:
//   - base.go: fields shared by every aggregate document
//   - inventory.go: items, batches and stock transactions
//   - procurement.go: purchase orders
//   - partner.go: suppliers
//   - menu.go, budget.go, activity.go
package models
