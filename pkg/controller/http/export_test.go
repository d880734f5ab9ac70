package http

var (
	FormatCount  = formatCount
	FormatBudget = formatBudget
)
