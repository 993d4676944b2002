package tokens

import (
	"errors"
	"time"

	"tokennet/config"
	"tokennet/core/events"
	"tokennet/core/types"
)

var (
	errNilState   = errors.New("tokens engine: state not configured")
	errNilAccount = errors.New("tokens engine: nil account argument")
	errNilToken   = errors.New("tokens engine: nil token definition")
)

// State is the narrow slice of the staged entity stores the engine mutates.
// It is satisfied by core/state.Manager and by map-backed mocks in tests.
type State interface {
	GetAccount(id types.EntityID) (*types.Account, error)
	PutAccount(account *types.Account) error
	AccountByAlias(alias []byte) (types.EntityID, bool, error)

	GetToken(id types.EntityID) (*types.Token, error)
	PutToken(token *types.Token) error

	GetRelation(account, token types.EntityID) (*types.TokenRelation, error)
	PutRelation(relation *types.TokenRelation) error
	RemoveRelation(account, token types.EntityID)

	GetNft(id types.NftID) (*types.Nft, error)
	PutNft(nft *types.Nft) error
	RemoveNft(id types.NftID)

	GetAirdrop(id types.PendingAirdropID) (*types.PendingAirdrop, error)
	PutAirdrop(airdrop *types.PendingAirdrop) error
	RemoveAirdrop(id types.PendingAirdropID)

	NextEntityID() (types.EntityID, error)

	Snapshot() int
	RevertToSnapshot(id int)
}

// KeySet carries the keys whose signatures were verified for the current
// dispatch. The engine only ever asks membership questions; verification
// itself happened upstream.
type KeySet []types.Key

// Active reports whether the key is in the verified set. An empty key is
// never active.
func (s KeySet) Active(key types.Key) bool {
	if key.Empty() {
		return false
	}
	for _, candidate := range s {
		if candidate.Equal(key) {
			return true
		}
	}
	return false
}

// Engine implements the ledger state transitions for tokens, associations,
// supply, transfers and allowances. Every operation validates all of its
// preconditions before staging a single write, so a non-OK status always
// leaves the staged state exactly as it found it.
type Engine struct {
	state   State
	cfg     config.Ledger
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a token engine with default limits and a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		cfg:     config.DefaultLedger(),
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the staged state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// SetConfig overrides the ledger limits consulted during validation.
func (e *Engine) SetConfig(cfg config.Ledger) { e.cfg = cfg }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily for deterministic tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

func (e *Engine) now() int64 { return e.nowFn() }

// usableAccount resolves an account that must exist and not be deleted.
func (e *Engine) usableAccount(id types.EntityID) (*types.Account, Status, error) {
	if e.state == nil {
		return nil, StatusOK, errNilState
	}
	account, err := e.state.GetAccount(id)
	if err != nil {
		return nil, StatusOK, err
	}
	if account == nil {
		return nil, StatusInvalidAccountID, nil
	}
	if account.Deleted {
		return nil, StatusAccountDeleted, nil
	}
	return account, StatusOK, nil
}

// usableToken resolves a token that must exist and not be deleted. Pause is
// checked separately because some operations (unpause, token info) must see
// paused tokens.
func (e *Engine) usableToken(id types.EntityID) (*types.Token, Status, error) {
	if e.state == nil {
		return nil, StatusOK, errNilState
	}
	token, err := e.state.GetToken(id)
	if err != nil {
		return nil, StatusOK, err
	}
	if token == nil {
		return nil, StatusInvalidTokenID, nil
	}
	if token.Deleted {
		return nil, StatusTokenWasDeleted, nil
	}
	return token, StatusOK, nil
}

// transferableToken additionally rejects paused tokens, the gate shared by
// every balance-affecting operation.
func (e *Engine) transferableToken(id types.EntityID) (*types.Token, Status, error) {
	token, status, err := e.usableToken(id)
	if err != nil || !status.OK() {
		return nil, status, err
	}
	if token.Paused {
		return nil, StatusTokenIsPaused, nil
	}
	return token, StatusOK, nil
}

// authorize checks a capability key: absence yields the capability-specific
// missing-key status, presence without a verified signature yields the
// signature failure.
func authorize(key types.Key, signers KeySet, missing Status) Status {
	if key.Empty() {
		return missing
	}
	if !signers.Active(key) {
		return StatusInvalidSignature
	}
	return StatusOK
}
