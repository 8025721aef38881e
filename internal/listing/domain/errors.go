package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrDuplicateFavorite  = errors.New("favorite already exists")
	ErrInvalidListingData = errors.New("invalid listing data")
	ErrInvalidOffer       = errors.New("invalid offer")
	ErrInvalidTransition  = errors.New("listing status transition not allowed")
	ErrForbidden          = errors.New("user not authorized to perform this action")
	ErrSessionNotFound    = errors.New("feed session not found")
	ErrVerificationFailed = errors.New("domain verification failed")
)
