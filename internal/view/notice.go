package view

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Notice is a modal message shown over the current screen.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Info is an informational notice.
func Info(msg string) Notice { return Notice{Level: LevelInfo, Title: "Info", Message: msg} }

// Success is an informational notice confirming an action.
func Success(msg string) Notice { return Notice{Level: LevelInfo, Title: "Success", Message: msg} }

// Warn reports a user-input problem.
func Warn(msg string) Notice { return Notice{Level: LevelWarning, Title: "Warning", Message: msg} }

// Fail reports a failed operation.
func Fail(msg string) Notice { return Notice{Level: LevelError, Title: "Error", Message: msg} }
