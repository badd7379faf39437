package email

const (
	subjectWelcome            = "Welcome to Stayfinder"
	subjectBookingRequestFmt  = "New booking request for %s"
	subjectBookingStatusFmt   = "Your booking at %s was %s"
	subjectBookingReminderFmt = "Reminder: a booking request for %s is waiting"
)
