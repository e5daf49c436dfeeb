package utils

import "time"

// Application Constants
const (
	AppName = "gotours"

	// Response statuses
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"

	// Pagination
	DefaultPage  = 1
	DefaultLimit = 100

	// Authentication
	PasswordMinLength  = 8
	ResetTokenLength   = 32
	ResetTokenExpiry   = 10 * time.Minute
	SessionCookieName  = "jwt"
	LogoutCookieValue  = "loggedout"
	LogoutCookieExpiry = 10 * time.Second

	// Ratings
	MinRating            = 1.0
	MaxRating            = 5.0
	DefaultRatingAverage = 4.5

	// Geospatial
	EarthRadiusMiles = 3963.2
	EarthRadiusKm    = 6378.1
	MetersPerMile    = 1609.344

	// File Upload
	MaxImageSize     = 5 * 1024 * 1024 // 5MB
	MaxTourImages    = 3
	UserPhotoSize    = 500 // square, px
	TourImageWidth   = 2000
	TourImageHeight  = 1333
	JPEGQuality      = 90
	DefaultUserPhoto = "default.jpg"
	TourImageSubdir  = "tours"
	UserImageSubdir  = "users"
)
