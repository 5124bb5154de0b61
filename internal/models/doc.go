// Package models defines the core domain models for Budget Splitter.
//
// # Model Overview
//
//   - Group: a household or trip group that shares expenses
//   - Membership: links an identity to a group with a role and capability flags
//   - Member: a participant within a group; may exist without an identity
//   - Expense: a single spend, paid by one member, split across members
//   - ExpenseSplit: one member's share of an expense, with paid/unpaid state
//   - PaymentHistoryEntry: append-only audit record of settlement actions
//   - User: a registered identity (multi-group mode)
//   - AuthToken: a persisted bearer credential with expiry and last-use tracking
//
// # Design Principles
//
//  1. **Members are not identities**: a Member can exist without ever logging in
//     (local mode, or a trip companion who never registers). The optional UserID
//     link is what connects settlement permissions to identities.
//  2. **Soft delete for expenses**: deleted expenses keep their splits and
//     payment history for audit purposes and are only filtered from reads.
//  3. **Avoid circular references**: relationships use ID strings, not pointers.
//  4. **Timestamps are Unix seconds** (int64), zero meaning unset.
package models
