package constants

const (
	SettingTimezone = "timezone"

	DefaultTimezone = "Local" // Use system local timezone by default
	DefaultCategory = "Personal"
)
