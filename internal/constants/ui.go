package constants

// HeaderSeparatorLength is the length of the header separator line.
const HeaderSeparatorLength = 50

// SecondsPerMinute is used when formatting durations.
const SecondsPerMinute = 60

// MinutesPerHour is used when formatting durations.
const MinutesPerHour = 60
