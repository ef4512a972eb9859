package repository

var (
	NullableTime      = nullableTime
	ParseNullableTime = parseNullableTime
	FormatTime        = formatTime
	ParseTime         = parseTime
)
