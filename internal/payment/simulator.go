// Package payment implements the simulated payment gateway. Charge is a
// pure decision function: it performs no I/O and persists nothing; the
// checkout transaction records its outcome in the billing ledger.
package payment

import (
	"encoding/json"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/travel-booking-platform/internal/model"
)

// Failure probabilities per payment method family.
const (
	failureRateCard   = 0.15
	failureRatePaypal = 0.10
	failureRateOther  = 0.12
)

// failureCodes is the fixed set of plausible gateway failure codes. On a
// simulated decline one of these is chosen uniformly at random.
var failureCodes = []string{
	"insufficient_funds",
	"card_declined",
	"expired_card",
	"invalid_cvv",
	"provider_unavailable",
	"fraud_suspected",
}

// ChargeRequest describes one charge attempt.
type ChargeRequest struct {
	Amount   float64
	Currency string
	Token    string
	Method   model.PaymentMethod
	// Override forces a deterministic outcome, bypassing randomness.
	// Used by tests and ops tooling; nil means roll the dice.
	Override *Override
}

// Override pins the simulator's decision.
type Override struct {
	Succeed     bool
	FailureCode string // used when Succeed is false; defaults to card_declined
}

// ChargeResult is the simulator's verdict on one attempt. ProviderRef is
// always populated so ledger rows can be correlated in audits even for
// declined charges.
type ChargeResult struct {
	Success     bool   `json:"success"`
	Status      string `json:"status"` // SUCCESS or FAILED
	FailureCode string `json:"failure_code,omitempty"`
	ProviderRef string `json:"provider_ref"`
	ProcessedAt string `json:"processed_at"`
}

// RawJSON serializes the result for the ledger's raw_response column.
func (r ChargeResult) RawJSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Simulator decides charge outcomes. The zero value is not usable; call
// NewSimulator, which seeds the generator from the system source.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator returns a Simulator with its own random source.
func NewSimulator() *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSimulatorWithSeed returns a Simulator with a deterministic source, for
// tests that exercise the random path itself.
func NewSimulatorWithSeed(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Charge evaluates one charge attempt. A non-positive amount always fails
// with invalid_amount regardless of overrides, mirroring how a real
// gateway rejects malformed requests before risk scoring.
func (s *Simulator) Charge(req ChargeRequest) ChargeResult {
	res := ChargeResult{
		ProviderRef: "SIM-" + uuid.NewString(),
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if req.Amount <= 0 {
		res.Status = "FAILED"
		res.FailureCode = "invalid_amount"
		return res
	}
	if req.Override != nil {
		if req.Override.Succeed {
			res.Success = true
			res.Status = "SUCCESS"
			return res
		}
		res.Status = "FAILED"
		res.FailureCode = req.Override.FailureCode
		if res.FailureCode == "" {
			res.FailureCode = "card_declined"
		}
		return res
	}

	s.mu.Lock()
	roll := s.rng.Float64()
	pick := s.rng.IntN(len(failureCodes))
	s.mu.Unlock()

	if roll < failureRate(req.Method) {
		res.Status = "FAILED"
		res.FailureCode = failureCodes[pick]
		return res
	}
	res.Success = true
	res.Status = "SUCCESS"
	return res
}

func failureRate(m model.PaymentMethod) float64 {
	switch m {
	case model.PaymentMethodCard:
		return failureRateCard
	case model.PaymentMethodPaypal:
		return failureRatePaypal
	default:
		return failureRateOther
	}
}
