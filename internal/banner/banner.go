package banner

// Type selects how the admin page renders a banner.
type Type string

const (
	TypeSuccess  Type = "success"
	TypeCritical Type = "critical"
)

const (
	MsgSaved   = "Badge saved to Product successfully"
	MsgMissing = "Missing product ID or badge"
	MsgFailed  = "An error occurred. Please try again."
)

// Banner is the user-visible outcome of a form submission.
type Banner struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

func Success(msg string) Banner {
	return Banner{Type: TypeSuccess, Message: msg}
}

func Critical(msg string) Banner {
	return Banner{Type: TypeCritical, Message: msg}
}

// IsSuccess reports whether the banner should render in the success tone.
func (b Banner) IsSuccess() bool {
	return b.Type == TypeSuccess
}
