package hooks

// RejectionInfo explains why a hook refused a file.
type RejectionInfo struct {
	Description     string
	LongDescription string
}

// Verdict is the outcome of running one hook against one file. The zero
// value is an accepted verdict.
type Verdict struct {
	rejection *RejectionInfo
}

func Accepted() Verdict {
	return Verdict{}
}

func Rejected(info RejectionInfo) Verdict {
	return Verdict{rejection: &info}
}

func (v Verdict) IsAccepted() bool {
	return v.rejection == nil
}

// Rejection returns the rejection details and true when the verdict is a
// rejection.
func (v Verdict) Rejection() (RejectionInfo, bool) {
	if v.rejection == nil {
		return RejectionInfo{}, false
	}
	return *v.rejection, true
}

// Reason is the short rejection description, empty when accepted.
func (v Verdict) Reason() string {
	if v.rejection == nil {
		return ""
	}
	return v.rejection.Description
}

func (v Verdict) String() string {
	if v.IsAccepted() {
		return "accepted"
	}
	return "rejected"
}
