package tokens

// Status is the closed outcome enumeration of every ledger operation.
// Values are wire-stable: they surface through the precompile ABI as int64
// response codes, so entries are append-only and never renumbered.
type Status uint32

const (
	StatusOK Status = 0

	// Entity resolution.
	StatusInvalidTokenID           Status = 10
	StatusInvalidAccountID         Status = 11
	StatusInvalidNftID             Status = 12
	StatusInvalidPayerAccountID    Status = 13
	StatusInvalidTransferAccount   Status = 14
	StatusInvalidAllowanceOwnerID  Status = 15
	StatusInvalidDelegatingSpender Status = 16
	StatusInvalidAutoRenewAccount  Status = 17
	StatusInvalidTreasuryAccount   Status = 18
	StatusAccountDeleted           Status = 19
	StatusTokenWasDeleted          Status = 20
	StatusInvalidPendingAirdropID  Status = 21

	// Associations.
	StatusNotAssociated          Status = 30
	StatusAlreadyAssociated      Status = 31
	StatusNoRemainingAutoSlots   Status = 32
	StatusAccountBalancesNotZero Status = 33
	StatusAccountIsTreasury      Status = 34
	StatusTreasuryStillOwnsNfts  Status = 35

	// Capability keys.
	StatusTokenHasNoFreezeKey   Status = 40
	StatusTokenHasNoKycKey      Status = 41
	StatusTokenHasNoWipeKey     Status = 42
	StatusTokenHasNoSupplyKey   Status = 43
	StatusTokenHasNoPauseKey    Status = 44
	StatusTokenHasNoMetadataKey Status = 45
	StatusTokenIsImmutable      Status = 46

	// Signatures.
	StatusInvalidSignature              Status = 50
	StatusInvalidSignatureForPrecompile Status = 51

	// Transfer gating.
	StatusAccountFrozenForToken    Status = 60
	StatusAccountKycNotGranted     Status = 61
	StatusTokenIsPaused            Status = 62
	StatusInsufficientTokenBalance Status = 63
	StatusTransfersNotZeroSum      Status = 64
	StatusInvalidTransferAmount    Status = 65

	// Supply accounting.
	StatusInvalidTokenMintAmount   Status = 70
	StatusInvalidTokenBurnAmount   Status = 71
	StatusInvalidWipingAmount      Status = 72
	StatusCannotWipeTreasury       Status = 73
	StatusTreasuryMustOwnBurnedNft Status = 74
	StatusMaxSupplyReached         Status = 75
	StatusInvalidNftSerialNumber   Status = 76
	StatusMetadataTooLong          Status = 77

	// Allowances.
	StatusAmountExceedsAllowance      Status = 80
	StatusSpenderHasNoAllowance       Status = 81
	StatusSenderDoesNotOwnNftSerial   Status = 82
	StatusFungibleTokenInNftAllowance Status = 83
	StatusNftInFungibleTokenAllowance Status = 84
	StatusNegativeAllowanceAmount     Status = 85

	// Creation and update validation.
	StatusInvalidExpirationTime Status = 90
	StatusInvalidRenewalPeriod  Status = 91
	StatusMissingTokenSymbol    Status = 92
	StatusMissingTokenName      Status = 93
	StatusTokenSymbolTooLong    Status = 94
	StatusTokenNameTooLong      Status = 95
	StatusMemoTooLong           Status = 96
	StatusInvalidCustomFee      Status = 97
	StatusCustomFeesListTooLong Status = 98
	StatusInvalidAdminKey       Status = 99
	StatusBatchSizeExceeded     Status = 100
	StatusInvalidTokenDecimals  Status = 101
	StatusInvalidInitialSupply  Status = 102
	StatusInvalidSupplyType     Status = 103

	// Dispatcher-level.
	StatusNotSupported Status = 110
)

var statusNames = map[Status]string{
	StatusOK:                            "OK",
	StatusInvalidTokenID:                "INVALID_TOKEN_ID",
	StatusInvalidAccountID:              "INVALID_ACCOUNT_ID",
	StatusInvalidNftID:                  "INVALID_NFT_ID",
	StatusInvalidPayerAccountID:         "PAYER_ACCOUNT_NOT_FOUND",
	StatusInvalidTransferAccount:        "INVALID_TRANSFER_ACCOUNT_ID",
	StatusInvalidAllowanceOwnerID:       "INVALID_ALLOWANCE_OWNER_ID",
	StatusInvalidDelegatingSpender:      "INVALID_DELEGATING_SPENDER",
	StatusInvalidAutoRenewAccount:       "INVALID_AUTORENEW_ACCOUNT",
	StatusInvalidTreasuryAccount:        "INVALID_TREASURY_ACCOUNT_FOR_TOKEN",
	StatusAccountDeleted:                "ACCOUNT_DELETED",
	StatusTokenWasDeleted:               "TOKEN_WAS_DELETED",
	StatusInvalidPendingAirdropID:       "INVALID_PENDING_AIRDROP_ID",
	StatusNotAssociated:                 "TOKEN_NOT_ASSOCIATED_TO_ACCOUNT",
	StatusAlreadyAssociated:             "TOKEN_ALREADY_ASSOCIATED_TO_ACCOUNT",
	StatusNoRemainingAutoSlots:          "NO_REMAINING_AUTOMATIC_ASSOCIATIONS",
	StatusAccountBalancesNotZero:        "TRANSACTION_REQUIRES_ZERO_TOKEN_BALANCES",
	StatusAccountIsTreasury:             "ACCOUNT_IS_TREASURY",
	StatusTreasuryStillOwnsNfts:         "CURRENT_TREASURY_STILL_OWNS_NFTS",
	StatusTokenHasNoFreezeKey:           "TOKEN_HAS_NO_FREEZE_KEY",
	StatusTokenHasNoKycKey:              "TOKEN_HAS_NO_KYC_KEY",
	StatusTokenHasNoWipeKey:             "TOKEN_HAS_NO_WIPE_KEY",
	StatusTokenHasNoSupplyKey:           "TOKEN_HAS_NO_SUPPLY_KEY",
	StatusTokenHasNoPauseKey:            "TOKEN_HAS_NO_PAUSE_KEY",
	StatusTokenHasNoMetadataKey:         "TOKEN_HAS_NO_METADATA_KEY",
	StatusTokenIsImmutable:              "TOKEN_IS_IMMUTABLE",
	StatusInvalidSignature:              "INVALID_SIGNATURE",
	StatusInvalidSignatureForPrecompile: "INVALID_FULL_PREFIX_SIGNATURE_FOR_PRECOMPILE",
	StatusAccountFrozenForToken:         "ACCOUNT_FROZEN_FOR_TOKEN",
	StatusAccountKycNotGranted:          "ACCOUNT_KYC_NOT_GRANTED_FOR_TOKEN",
	StatusTokenIsPaused:                 "TOKEN_IS_PAUSED",
	StatusInsufficientTokenBalance:      "INSUFFICIENT_TOKEN_BALANCE",
	StatusTransfersNotZeroSum:           "TRANSFERS_NOT_ZERO_SUM",
	StatusInvalidTransferAmount:         "INVALID_ACCOUNT_AMOUNTS",
	StatusInvalidTokenMintAmount:        "INVALID_TOKEN_MINT_AMOUNT",
	StatusInvalidTokenBurnAmount:        "INVALID_TOKEN_BURN_AMOUNT",
	StatusInvalidWipingAmount:           "INVALID_WIPING_AMOUNT",
	StatusCannotWipeTreasury:            "CANNOT_WIPE_TOKEN_TREASURY_ACCOUNT",
	StatusTreasuryMustOwnBurnedNft:      "TREASURY_MUST_OWN_BURNED_NFT",
	StatusMaxSupplyReached:              "TOKEN_MAX_SUPPLY_REACHED",
	StatusInvalidNftSerialNumber:        "INVALID_NFT_SERIAL_NUMBER",
	StatusMetadataTooLong:               "METADATA_TOO_LONG",
	StatusAmountExceedsAllowance:        "AMOUNT_EXCEEDS_ALLOWANCE",
	StatusSpenderHasNoAllowance:         "SPENDER_DOES_NOT_HAVE_ALLOWANCE",
	StatusSenderDoesNotOwnNftSerial:     "SENDER_DOES_NOT_OWN_NFT_SERIAL_NO",
	StatusFungibleTokenInNftAllowance:   "FUNGIBLE_TOKEN_IN_NFT_ALLOWANCES",
	StatusNftInFungibleTokenAllowance:   "NFT_IN_FUNGIBLE_TOKEN_ALLOWANCES",
	StatusNegativeAllowanceAmount:       "NEGATIVE_ALLOWANCE_AMOUNT",
	StatusInvalidExpirationTime:         "INVALID_EXPIRATION_TIME",
	StatusInvalidRenewalPeriod:          "INVALID_RENEWAL_PERIOD",
	StatusMissingTokenSymbol:            "MISSING_TOKEN_SYMBOL",
	StatusMissingTokenName:              "MISSING_TOKEN_NAME",
	StatusTokenSymbolTooLong:            "TOKEN_SYMBOL_TOO_LONG",
	StatusTokenNameTooLong:              "TOKEN_NAME_TOO_LONG",
	StatusMemoTooLong:                   "MEMO_TOO_LONG",
	StatusInvalidCustomFee:              "INVALID_CUSTOM_FEE",
	StatusCustomFeesListTooLong:         "CUSTOM_FEES_LIST_TOO_LONG",
	StatusInvalidAdminKey:               "INVALID_ADMIN_KEY",
	StatusBatchSizeExceeded:             "BATCH_SIZE_LIMIT_EXCEEDED",
	StatusInvalidTokenDecimals:          "INVALID_TOKEN_DECIMALS",
	StatusInvalidInitialSupply:          "INVALID_TOKEN_INITIAL_SUPPLY",
	StatusInvalidSupplyType:             "INVALID_SUPPLY_TYPE",
	StatusNotSupported:                  "NOT_SUPPORTED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN_STATUS"
}

// OK reports whether the status is the success value.
func (s Status) OK() bool { return s == StatusOK }
