package constant

import "time"

const (
	COMMENT_PAGE_SIZE       = 10
	COMMENT_TEXT_MAX_LENGTH = 200
	REPLY_REVEAL_STEP       = 3

	USERNAME_MIN_LENGTH = 5
	USERNAME_MAX_LENGTH = 20
	NAME_MAX_LENGTH     = 20
	EMAIL_MAX_LENGTH    = 80
	PASSWORD_MIN_LENGTH = 5
	PASSWORD_MAX_LENGTH = 72

	ACCESS_TOKEN_DURATION = 5 * time.Hour
)

const EMAIL_PATTERN = `^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`
