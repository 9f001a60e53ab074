// Package domain defines the record types exchanged with the ledger
// authority and shared by every other internal package.
//
// This package contains type definitions and display helpers only. All
// other internal packages import domain; domain imports nothing internal.
//
// Key design constraints:
//   - Money amounts are decimal.Decimal, never float64, so sums stay exact
//     at 2-decimal display precision.
//   - All JSON tags use snake_case and match the authority's wire payloads.
//   - Records are owned by the authority: the client reads them, issues
//     commands, and re-reads. It never fabricates or patches them locally.
package domain
