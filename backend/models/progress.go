package models

type ProgressOverview struct {
	TotalEnrollments      int64 `json:"total_enrollments"`
	TotalCoursesCompleted int64 `json:"total_courses_completed"`
	CoursesInProgress     int64 `json:"courses_in_progress"`
	TotalLessonsCompleted int64 `json:"total_lessons_completed"`
}
