// Package models defines the core domain types for the self-assessment
// engine.
//
//   - TaxYear: UK fiscal year identifier ("2024 to 2025")
//   - Category: the tagged form of a ledger category string
//     ("HMRC <person> <type> <subtype>"), with named parsing helpers
//     that replace ad-hoc string slicing
//   - Person: identity and marital facts from the people directory
//   - Transaction: one categorized ledger row
//
// Monetary fields are shopspring decimals throughout; see the money
// package for rounding and formatting policy.
package models
