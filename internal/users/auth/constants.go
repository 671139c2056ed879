// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// PasswordMinLength is the shortest accepted password.
	PasswordMinLength = 6

	// PasswordMaxLength stays under bcrypt's 72-byte input limit.
	PasswordMaxLength = 72

	// NameMaxLength bounds first and last names.
	NameMaxLength = 100

	// EmailMaxLength bounds stored email addresses.
	EmailMaxLength = 254
)

// # Client Messages

const (
	// msgInvalidCredentials is shared by unknown-email and wrong-password failures.
	msgInvalidCredentials = "Invalid email or password"

	// msgInvalidSession is returned for any refresh failure.
	msgInvalidSession = "Invalid or expired token"

	msgEmailTaken    = "User already exists"
	msgInvalidInvite = "Invalid invite code"
	msgUnknownRole   = "Unknown role"
	msgAdminInvite   = "The admin role requires an invite code"
)
