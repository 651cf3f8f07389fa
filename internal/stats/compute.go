// Package stats derives the dashboard snapshot from the backend collections.
package stats

import (
	"encoding/json"
	"math"
	"strings"

	"admin/internal/models"
)

type userRecord struct {
	Role any `json:"role"`
}

type carnetRecord struct {
	Status any `json:"status"`
}

type courseRecord struct {
	Sections json.RawMessage `json:"sections"`
}

// Compute reduces the three collections to a snapshot.
// Unknown roles and statuses are ignored and malformed fields count as zero.
func Compute(users, courses, carnets []json.RawMessage) models.StatsSnapshot {
	snapshot := models.StatsSnapshot{
		TotalUsers:   len(users),
		TotalCourses: len(courses),
	}

	for _, raw := range users {
		var user userRecord
		if json.Unmarshal(raw, &user) != nil {
			continue
		}
		switch normalize(user.Role) {
		case "student":
			snapshot.RolesCount.Student++
		case "instructor", "teacher":
			snapshot.RolesCount.Instructor++
		case "admin":
			snapshot.RolesCount.Admin++
		}
	}

	snapshot.CarnetRequests.Total = len(carnets)
	for _, raw := range carnets {
		var carnet carnetRecord
		if json.Unmarshal(raw, &carnet) != nil {
			continue
		}
		switch normalize(carnet.Status) {
		case "pending":
			snapshot.CarnetRequests.Pending++
		case "approved":
			snapshot.CarnetRequests.Approved++
		case "rejected":
			snapshot.CarnetRequests.Rejected++
		}
	}

	for _, raw := range courses {
		var course courseRecord
		if json.Unmarshal(raw, &course) != nil {
			continue
		}
		snapshot.TotalSections += sectionCount(course.Sections)
	}

	return snapshot
}

// sectionCount reads a sections field that is either a count or the list of sections.
// A count must be a whole number between 0 and MaxInt32.
func sectionCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var count float64
	if err := json.Unmarshal(raw, &count); err == nil {
		if count < 0 || count > math.MaxInt32 || count != math.Trunc(count) {
			return 0
		}
		return int(count)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return len(list)
	}
	return 0
}

func normalize(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}
