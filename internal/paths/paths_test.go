package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "students/E1", Student("E1"))
	assert.Equal(t, "students/E1/notifications", Notifications("E1"))
	assert.Equal(t, "students/E1/notifications/k", Notification("E1", "k"))
	assert.Equal(t, "teachers/T1", Teacher("T1"))
	assert.Equal(t, "messages/T1", Messages("T1"))
	assert.Equal(t, "appointments/E1/k", StudentAppointment("E1", "k"))
	assert.Equal(t, "teacherAppointments/T1", TeacherAppointments("T1"))
	assert.Equal(t, "teacherAppointments/T1/k", TeacherAppointment("T1", "k"))
	assert.Equal(t, "journal/k", JournalEntry("k"))
}
