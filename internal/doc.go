// Package internal contains helper utilities that are intentionally private
// to secauth, currently secure random identifier generation.
//
// # Sub-packages
//
//   - limiters: the failed-authentication lockout tracker
//
// # What this package must NOT do
//
//   - Export types that appear in the public secauth API.
//   - Be imported by any package outside the secauth module.
package internal
