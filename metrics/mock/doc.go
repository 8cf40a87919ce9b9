// Package mock provides a test double for metrics.JournalLookup.
package mock
