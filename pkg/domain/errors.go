package domain

import "errors"

// ErrInvalidRecipe is returned when a recipe is missing its name or instructions.
var ErrInvalidRecipe = errors.New("recipe name and instructions are required")

// ErrIndexOutOfRange is returned when a positional operation targets a missing recipe.
var ErrIndexOutOfRange = errors.New("recipe index out of range")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrRemote is returned when the backend answers with a non-success status.
var ErrRemote = errors.New("remote request failed")

// ErrMalformed is returned when a payload cannot be decoded.
var ErrMalformed = errors.New("malformed payload")

// ErrUnknownMessage is returned when a payload carries an unrecognised tag.
var ErrUnknownMessage = errors.New("unknown message")

// ErrNoEditTarget is returned when an edit is submitted without an edited recipe.
var ErrNoEditTarget = errors.New("no recipe is being edited")

// ErrNoDeleteTarget is returned when a delete is confirmed while the dialog is closed.
var ErrNoDeleteTarget = errors.New("no recipe is pending deletion")
