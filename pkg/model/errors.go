package model

import "errors"

var (
	ErrInvalidStandings   = errors.New("standings do not cover all drivers")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrRosterFull         = errors.New("roster is full")
	ErrAlreadyOwned       = errors.New("already owned")
	ErrNotOwned           = errors.New("not owned")
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrUnknownBonus       = errors.New("unknown bonus")
	ErrBonusTarget        = errors.New("bonus not applicable to target")
	ErrInvalidInput       = errors.New("invalid input")
)
