package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrWrongPassword = ErrorResponse{
		Error:   "wrong_password",
		Details: "Incorrect password. Try again!",
	}

	ErrAuthenticationRequired = ErrorResponse{
		Error:   "authentication_required",
		Details: "Enter the password first",
	}

	ErrStillLocked = ErrorResponse{
		Error:   "still_locked",
		Details: "This surprise has not unlocked yet",
	}

	ErrNotFound = ErrorResponse{
		Error:   "not_found",
		Details: "Nothing here",
	}
)
