// SPDX-License-Identifier: MIT

// Package plan defines the static feature matrix for user plan tiers. There
// is no billing or per-user bookkeeping here; the upload path consults the
// matrix for size caps only.
package plan

// Tier identifies a user plan.
type Tier string

// Known plan tiers.
const (
	Free       Tier = "free"
	Basic      Tier = "basic"
	Premium    Tier = "premium"
	Enterprise Tier = "enterprise"
)

// Features lists what a tier is allowed to do.
type Features struct {
	MaxFileSizeMB       int
	DailyConversions    int
	PriorityProcessing  bool
	AdvancedCompression bool
	BatchProcessing     bool
}

var features = map[Tier]Features{
	Free: {
		MaxFileSizeMB:    10,
		DailyConversions: 5,
	},
	Basic: {
		MaxFileSizeMB:       50,
		DailyConversions:    50,
		AdvancedCompression: true,
	},
	Premium: {
		MaxFileSizeMB:       100,
		DailyConversions:    500,
		PriorityProcessing:  true,
		AdvancedCompression: true,
		BatchProcessing:     true,
	},
	Enterprise: {
		MaxFileSizeMB:       500,
		DailyConversions:    5000,
		PriorityProcessing:  true,
		AdvancedCompression: true,
		BatchProcessing:     true,
	},
}

// For returns the feature set of a tier, defaulting to Free for unknown
// tiers.
func For(t Tier) Features {
	if f, ok := features[t]; ok {
		return f
	}
	return features[Free]
}

// IsValid reports whether t names a known tier.
func (t Tier) IsValid() bool {
	_, ok := features[t]
	return ok
}
