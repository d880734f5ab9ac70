package model

// DashboardStats are the headline numbers of the organizer dashboard
type DashboardStats struct {
	ActiveEvents       int     `json:"activeEvents"`
	ActiveEventsChange string  `json:"activeEventsChange"`
	TotalAttendees     int     `json:"totalAttendees"`
	AttendeesChange    string  `json:"attendeesChange"`
	TotalBudget        float64 `json:"totalBudget"`
	BudgetAllocated    int     `json:"budgetAllocated"` // percent
	PendingTasks       int     `json:"pendingTasks"`
	OverdueTasks       int     `json:"overdueTasks"`
}

// DashboardEvent is an event card on the dashboard
type DashboardEvent struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	Attendees int     `json:"attendees"`
	Budget    float64 `json:"budget"`
	Currency  string  `json:"currency"`
	Progress  int     `json:"progress"`
	Venue     string  `json:"venue"`
}

// DashboardTask is an upcoming task on the dashboard
type DashboardTask struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	DueDate  string `json:"dueDate"`
	Priority string `json:"priority"`
	Event    string `json:"event"`
}

// DashboardView is everything rendered on the dashboard
type DashboardView struct {
	Stats  DashboardStats   `json:"stats"`
	Events []DashboardEvent `json:"events"`
	Tasks  []DashboardTask  `json:"tasks"`
	IsDemo bool             `json:"isDemo"`
}

// StatusColor returns the badge color of an event status
func StatusColor(status string) string {
	switch status {
	case "confirmed":
		return "green"
	case "planning":
		return "blue"
	default:
		return "gray"
	}
}

// PriorityColor returns the badge color of a task priority
func PriorityColor(priority string) string {
	switch priority {
	case "high":
		return "red"
	case "medium":
		return "yellow"
	case "low":
		return "green"
	default:
		return "gray"
	}
}

// DemoDashboard returns the sample dashboard shown to visitors who are not signed in
func DemoDashboard() *DashboardView {
	return &DashboardView{
		IsDemo: true,
		Stats: DashboardStats{
			ActiveEvents:       3,
			ActiveEventsChange: "+2 this month",
			TotalAttendees:     2847,
			AttendeesChange:    "+15% vs last month",
			TotalBudget:        1200000,
			BudgetAllocated:    85,
			PendingTasks:       24,
			OverdueTasks:       4,
		},
		Events: []DashboardEvent{
			{ID: "1", Title: "Tech Summit 2025", Date: "2025-09-15", Status: "planning", Attendees: 500,
				Budget: 150000, Currency: "USD", Progress: 65, Venue: "San Francisco Convention Center"},
			{ID: "2", Title: "Wedding - Sarah & Mike", Date: "2025-07-20", Status: "confirmed", Attendees: 120,
				Budget: 45000, Currency: "USD", Progress: 90, Venue: "Napa Valley Vineyard"},
			{ID: "3", Title: "Corporate Retreat", Date: "2025-08-10", Status: "draft", Attendees: 80,
				Budget: 25000, Currency: "USD", Progress: 25, Venue: "Lake Tahoe Resort"},
		},
		Tasks: []DashboardTask{
			{ID: "1", Title: "Finalize catering menu", DueDate: "2025-06-22", Priority: "high", Event: "Tech Summit 2025"},
			{ID: "2", Title: "Send invitations", DueDate: "2025-06-25", Priority: "medium", Event: "Wedding - Sarah & Mike"},
			{ID: "3", Title: "Book transportation", DueDate: "2025-06-28", Priority: "low", Event: "Corporate Retreat"},
			{ID: "4", Title: "Confirm AV equipment", DueDate: "2025-06-30", Priority: "high", Event: "Tech Summit 2025"},
		},
	}
}
