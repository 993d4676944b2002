package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// Pause blocks every transfer of the token network-wide until unpaused.
// Requires the token's pause key.
func (e *Engine) Pause(tokenID types.EntityID, signers KeySet) (Status, error) {
	return e.setPaused(tokenID, signers, true)
}

// Unpause lifts a token-level pause.
func (e *Engine) Unpause(tokenID types.EntityID, signers KeySet) (Status, error) {
	return e.setPaused(tokenID, signers, false)
}

func (e *Engine) setPaused(tokenID types.EntityID, signers KeySet, paused bool) (Status, error) {
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if status := authorize(token.PauseKey, signers, StatusTokenHasNoPauseKey); !status.OK() {
		return status, nil
	}

	token.Paused = paused
	if err := e.state.PutToken(token); err != nil {
		return StatusOK, err
	}
	eventType := events.TypeTokenPaused
	if !paused {
		eventType = events.TypeTokenUnpaused
	}
	e.emit(events.TokenLifecycle{Type: eventType, TokenID: tokenID})
	return StatusOK, nil
}
