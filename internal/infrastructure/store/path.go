package store

import (
	"fmt"
	"strings"
)

// Well-known top-level collections
const (
	CollectionInventory      = "inventory"
	CollectionPurchaseOrders = "purchaseOrders"
	CollectionSuppliers      = "suppliers"
	CollectionMenu           = "menu"
	CollectionBudgets        = "budgets"
	CollectionActivityLogs   = "activityLogs"
	CollectionTransactions   = "transactions"

	SubcollectionBatches = "batches"
)

// Join builds a path from segments
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Parent returns the path without its last segment
func Parent(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

// Base returns the last segment of path
func Base(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

func segments(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	parts := strings.Split(path, "/")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("path %q has an empty segment", path)
		}
	}
	return parts, nil
}

// ValidateDocumentPath checks that path names a document
func ValidateDocumentPath(path string) error {
	parts, err := segments(path)
	if err != nil {
		return err
	}
	if len(parts)%2 != 0 {
		return fmt.Errorf("path %q is a collection, not a document", path)
	}
	return nil
}

// ValidateCollectionPath checks that path names a collection
func ValidateCollectionPath(path string) error {
	parts, err := segments(path)
	if err != nil {
		return err
	}
	if len(parts)%2 != 1 {
		return fmt.Errorf("path %q is a document, not a collection", path)
	}
	return nil
}

// isBeneath reports whether collection lives under the document at doc
func isBeneath(collection, doc string) bool {
	return strings.HasPrefix(collection, doc+"/")
}
