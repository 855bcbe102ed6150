package track

// ShouldAlert reports whether a new aggregate score warrants a
// notification: the score must have more than doubled since the last
// alert. The boundary is exclusive, exactly double does not fire. A zero
// baseline means any positive score fires, so the first detection of
// engagement is always notable.
//
// The caller commits the new baseline (store.CommitAlertScore) only after
// the notification is confirmed delivered; a failed dispatch leaves the
// old baseline in place so the next cycle retries.
func ShouldAlert(lastAlertedScore, newScore int) bool {
	return newScore > lastAlertedScore*2
}
