package tx

import "fmt"

// Result represents an operation result code.
//
// Codes are grouped by category, following the convention of ledger
// engines: tes (success), tec (rejected against current state), tem
// (malformed, rejected before touching state), tef (internal failure).
// No category ever leaves partial state behind; an operation either
// applies fully or not at all.
type Result int

const (
	// TesSUCCESS means the operation applied fully.
	TesSUCCESS Result = 0

	// tec codes (100-199): the operation was well formed but rejected
	// against the current ledger state.
	TecNO_PAIR              Result = 100
	TecPAIR_INACTIVE        Result = 101
	TecNO_PERMISSION        Result = 102
	TecBAD_TRANSFER         Result = 103
	TecUNFUNDED             Result = 104
	TecINVALID_OUTPUT       Result = 105
	TecOUTPUT_TOO_SMALL     Result = 106
	TecSLIPPAGE             Result = 107
	TecINITIAL_LIQUIDITY    Result = 108
	TecAMOUNTS_TOO_SMALL    Result = 109
	TecINSUFFICIENT_SHARES  Result = 110
	TecWITHDRAWAL_TOO_SMALL Result = 111
	TecNOTHING_TO_CLAIM     Result = 112
	TecNO_PENDING           Result = 113
	TecHAS_OBLIGATIONS      Result = 114

	// tef codes (-199 to -100): internal failure.
	TefINTERNAL Result = -192

	// tem codes (-299 to -200): malformed operation.
	TemMALFORMED      Result = -299
	TemBAD_AMOUNT     Result = -298
	TemBAD_FEE        Result = -297
	TemBAD_ASSET_PAIR Result = -296
)

var resultNames = map[Result]string{
	TesSUCCESS:              "tesSUCCESS",
	TecNO_PAIR:              "tecNO_PAIR",
	TecPAIR_INACTIVE:        "tecPAIR_INACTIVE",
	TecNO_PERMISSION:        "tecNO_PERMISSION",
	TecBAD_TRANSFER:         "tecBAD_TRANSFER",
	TecUNFUNDED:             "tecUNFUNDED",
	TecINVALID_OUTPUT:       "tecINVALID_OUTPUT",
	TecOUTPUT_TOO_SMALL:     "tecOUTPUT_TOO_SMALL",
	TecSLIPPAGE:             "tecSLIPPAGE",
	TecINITIAL_LIQUIDITY:    "tecINITIAL_LIQUIDITY",
	TecAMOUNTS_TOO_SMALL:    "tecAMOUNTS_TOO_SMALL",
	TecINSUFFICIENT_SHARES:  "tecINSUFFICIENT_SHARES",
	TecWITHDRAWAL_TOO_SMALL: "tecWITHDRAWAL_TOO_SMALL",
	TecNOTHING_TO_CLAIM:     "tecNOTHING_TO_CLAIM",
	TecNO_PENDING:           "tecNO_PENDING",
	TecHAS_OBLIGATIONS:      "tecHAS_OBLIGATIONS",
	TefINTERNAL:             "tefINTERNAL",
	TemMALFORMED:            "temMALFORMED",
	TemBAD_AMOUNT:           "temBAD_AMOUNT",
	TemBAD_FEE:              "temBAD_FEE",
	TemBAD_ASSET_PAIR:       "temBAD_ASSET_PAIR",
}

var resultMessages = map[Result]string{
	TesSUCCESS:              "The operation was applied.",
	TecNO_PAIR:              "Pair does not exist.",
	TecPAIR_INACTIVE:        "Pair is not active.",
	TecNO_PERMISSION:        "Caller lacks permission for this operation.",
	TecBAD_TRANSFER:         "Attached transfer is missing or carries the wrong asset.",
	TecUNFUNDED:             "Caller cannot fund the attached transfer.",
	TecINVALID_OUTPUT:       "Swap output is zero or would exhaust the reserve.",
	TecOUTPUT_TOO_SMALL:     "Swap output is zero after the fee.",
	TecSLIPPAGE:             "Result is below the caller's stated minimum.",
	TecINITIAL_LIQUIDITY:    "Initial liquidity is below the minimum lock.",
	TecAMOUNTS_TOO_SMALL:    "Amounts are too small to match the pool ratio.",
	TecINSUFFICIENT_SHARES:  "Share amount exceeds the available balance.",
	TecWITHDRAWAL_TOO_SMALL: "Withdrawal amounts both round to zero.",
	TecNOTHING_TO_CLAIM:     "No fees to claim.",
	TecNO_PENDING:           "No pending deposit to operate on.",
	TecHAS_OBLIGATIONS:      "Pair still has liquidity, pending deposits, or unclaimed fees.",
	TefINTERNAL:             "Internal error while applying the operation.",
	TemMALFORMED:            "Operation is malformed.",
	TemBAD_AMOUNT:           "Amount is missing, zero, or negative.",
	TemBAD_FEE:              "Fee percentage is out of range.",
	TemBAD_ASSET_PAIR:       "Asset pair is invalid.",
}

var resultsByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, n := range resultNames {
		m[n] = r
	}
	return m
}()

// ResultFromName resolves a canonical code name back to its code.
func ResultFromName(name string) (Result, bool) {
	r, ok := resultsByName[name]
	return r, ok
}

// String returns the canonical code name.
func (r Result) String() string {
	if n, ok := resultNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Message returns a human-readable description of the code.
func (r Result) Message() string {
	if m, ok := resultMessages[r]; ok {
		return m
	}
	return "Unknown result."
}

// IsSuccess reports whether the operation applied.
func (r Result) IsSuccess() bool { return r == TesSUCCESS }

// IsTec reports whether the code is a state-dependent rejection.
func (r Result) IsTec() bool { return r >= 100 && r < 200 }

// IsTem reports whether the code is a malformed-operation rejection.
func (r Result) IsTem() bool { return r >= -299 && r <= -200 }

// IsApplied reports whether any state changed. Failed operations never
// leave partial state, so this is equivalent to IsSuccess.
func (r Result) IsApplied() bool { return r.IsSuccess() }
