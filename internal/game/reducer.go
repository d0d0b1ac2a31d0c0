package game

// Apply computes the next snapshot from the previous one plus one inbound
// event. It is pure: prev is never mutated, and variants that touch nested
// state copy the slices they write. Most transition events are cues with no
// write-set at all; the authoritative state for those arrives via a
// subsequent game_state replace, so stale or duplicate cues are harmless.
//
// An event whose precondition does not hold (no snapshot yet, no current
// round, index out of range) is a silent no-op. Mid-game reordering between
// a cue and the full state that follows it is expected on a live connection,
// not an error, so Apply never rejects.
func Apply(prev *Snapshot, ev Event) *Snapshot {
	switch e := ev.(type) {
	case GameCreated:
		// Write-set: entire snapshot. A missing payload keeps the current
		// one rather than wiping it.
		if e.State == nil {
			return prev
		}
		return e.State

	case GameJoined:
		// Write-set: entire snapshot.
		if e.State == nil {
			return prev
		}
		return e.State

	case FullState:
		// Write-set: entire snapshot. Replaying the same push twice is a
		// no-op by construction: the result is always exactly the payload.
		if e.State == nil {
			return prev
		}
		return e.State

	case PlayerJoined:
		// Write-set: players. Idempotent under duplicate delivery.
		if prev == nil {
			return prev
		}
		for _, p := range prev.Players {
			if p.ID == e.Player.ID {
				return prev
			}
		}
		next := *prev
		next.Players = append(append([]Player(nil), prev.Players...), e.Player)
		return &next

	case SubmissionVideosReady:
		// Write-set: currentRound.submissions[i].video_url for each index in
		// the payload. Indices not present are left untouched; generation
		// completes out of order and partially.
		if prev == nil || prev.CurrentRound == nil {
			return prev
		}
		subs := append([]Submission(nil), prev.CurrentRound.Submissions...)
		touched := false
		for idx, url := range e.Videos {
			if idx < 0 || idx >= len(subs) || url == "" {
				continue
			}
			subs[idx].VideoURL = url
			touched = true
		}
		if !touched {
			return prev
		}
		round := *prev.CurrentRound
		round.Submissions = subs
		next := *prev
		next.CurrentRound = &round
		return &next

	case VideoReady:
		// Write-set: currentRound.video_url (the winner video).
		if prev == nil || prev.CurrentRound == nil || e.VideoURL == "" {
			return prev
		}
		round := *prev.CurrentRound
		round.VideoURL = e.VideoURL
		next := *prev
		next.CurrentRound = &round
		return &next

	default:
		// player_left, round_started, cards_submitted, judging_phase,
		// winner_selected, video_progress, chat_message, error: no
		// authoritative payload.
		// player_left deliberately does not prune the roster; removal waits
		// for the next game_state so we never act on a stale membership view.
		return prev
	}
}
