package constants

// ContextKeyUserID is the key under which the authenticated user's ID is
// stored in both the session and the gin context.
const ContextKeyUserID = "user_id"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "taskboard_session"

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// AttachmentContainer is the logical container for uploaded task files.
// It is part of every attachment's public URL.
const AttachmentContainer = "attachments"
