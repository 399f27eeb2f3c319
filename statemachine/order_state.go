package statemachine

import (
	"errors"

	"localmart-api/models"
)

// Stages is the fixed forward sequence an order moves through.
// cancelled sits outside the sequence and has no stage index.
var Stages = []models.OrderStatus{
	models.StatusPending,
	models.StatusAssigned,
	models.StatusPickedUp,
	models.StatusOutForDelivery,
	models.StatusDelivered,
}

// StageIndex maps a status to its zero-based position in Stages,
// or -1 for cancelled/unknown statuses.
func StageIndex(status models.OrderStatus) int {
	for i, s := range Stages {
		if s == status {
			return i
		}
	}
	return -1
}

// Progress returns the completed fraction of the stage sequence, 0..1.
// A -1 stage index (cancelled/unknown) yields -1: callers must not
// render a progress bar for it.
func Progress(status models.OrderStatus) float64 {
	idx := StageIndex(status)
	if idx < 0 {
		return -1
	}
	return float64(idx) / float64(len(Stages)-1)
}

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string // "delivery", "admin"
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Rider claims an unassigned order
	{From: models.StatusPending, To: models.StatusAssigned, Actor: "delivery"},
	// Rider picks up from the shop (pickup proof photo required)
	{From: models.StatusAssigned, To: models.StatusPickedUp, Actor: "delivery"},
	// Rider heads out, status-only step
	{From: models.StatusPickedUp, To: models.StatusOutForDelivery, Actor: "delivery"},
	// Rider hands over (delivery proof photo required)
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: "delivery"},
	// Cancellation is admin-only; riders have no cancel path
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: "admin"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
