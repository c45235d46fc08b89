// Package limiters provides the failed-authentication lockout tracker.
//
// [LockoutTracker] counts consecutive credential failures per username under
// one mutex, so two concurrent failures can never both observe count-1 and
// under-count. A principal at or past the threshold is rejected until the
// lockout window elapses; the first IsLocked evaluation after the window
// clears the record, so a stale count cannot re-trigger lockout on a single
// future failure.
//
// # What this package must NOT do
//
//   - Decide consequences. The engine chooses what a locked account means;
//     the tracker only counts and answers.
//   - Sweep in the background. Window expiry is evaluated lazily on IsLocked.
package limiters
