package service

import (
	pkgerrors "github.com/AfopeM/nawalingo/pkg/errors"
)

// ── business errors ──

var (
	ErrUserNotFound        = pkgerrors.New(pkgerrors.ErrNotFound, "User not found")
	ErrTutorNotFound       = pkgerrors.New(pkgerrors.ErrNotFound, "Tutor not found")
	ErrRoleNotFound        = pkgerrors.New(pkgerrors.ErrNotFound, "Role not found")
	ErrApplicationNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "Tutor application not found")

	ErrPermissionDenied    = pkgerrors.New(pkgerrors.ErrForbidden, "Insufficient permissions")
	ErrTutorRoleRequired   = pkgerrors.New(pkgerrors.ErrForbidden, "An approved tutor role is required")
	ErrStudentRoleRequired = pkgerrors.New(pkgerrors.ErrForbidden, "An approved student role is required")

	ErrSelfRating        = pkgerrors.New(pkgerrors.ErrValidation, "Tutors cannot rate themselves")
	ErrUnknownPermission = pkgerrors.New(pkgerrors.ErrValidation, "Unknown permission")
	ErrInvalidCalendar   = pkgerrors.New(pkgerrors.ErrValidation, "Invalid calendar file")

	ErrApplicationNotPending = pkgerrors.New(pkgerrors.ErrValidation, "Tutor application is not pending")
)
