// Package list implements the generic list feature shared by players,
// sports and sessions.
//
// A list owns an identified collection, at most one presented detail and at
// most one modal destination (the add sheet or a delete confirmation).
//
// Key design constraints:
//   - The provider's snapshot order is authoritative; the list never sorts
//   - Save and Delete update the local collection first and then tell the
//     provider, so the UI does not wait for the next snapshot
//   - The presented detail is re-validated after every action and cleared
//     as soon as its entity leaves the collection
//   - Effect identities are relative ("observe", "detail"); the app scopes
//     them under the list's name
package list
