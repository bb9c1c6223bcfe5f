package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"elearnhub/internal/models"
	"elearnhub/internal/repository"
)

// Notifier turns domain events into Notification rows via the queue.
//
// The write paths (enrollment service, material service) call these
// methods explicitly after a successful persistence write, so the
// coupling between "student enrolled" and "teacher gets notified" is
// visible at the call site instead of hidden in a save hook.
type Notifier struct {
	queue          Queue
	notifRepo      repository.NotificationRepository
	enrollmentRepo repository.EnrollmentRepository
	logger         *slog.Logger
}

func NewNotifier(
	queue Queue,
	notifRepo repository.NotificationRepository,
	enrollmentRepo repository.EnrollmentRepository,
	logger *slog.Logger,
) *Notifier {
	return &Notifier{
		queue:          queue,
		notifRepo:      notifRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// StudentEnrolled notifies the course teacher about a new active
// enrollment. Fired only on enrollment creation, not on reactivation of
// a previously dropped row.
func (n *Notifier) StudentEnrolled(ctx context.Context, course *models.Course, student *models.User) error {
	notification := models.Notification{
		RecipientID: course.TeacherID,
		Type:        models.NotificationEnrollment,
		Title:       fmt.Sprintf("New enrollment in %s", course.Code),
		Message:     fmt.Sprintf("%s has enrolled in %s.", student.FullName(), course.Title),
		Link:        fmt.Sprintf("/courses/%d/students/", course.ID),
	}
	return n.queue.Enqueue(ctx, "notify-enrollment", func(jobCtx context.Context) error {
		return n.notifRepo.Create(jobCtx, &notification)
	})
}

// MaterialUploaded notifies every actively enrolled student about new
// course material. The recipient set is re-queried when the job runs, so
// enrollments that change between trigger and execution are honored.
// One bulk insert, not one insert per student.
func (n *Notifier) MaterialUploaded(ctx context.Context, course *models.Course, material *models.CourseMaterial) error {
	courseID := course.ID
	title := fmt.Sprintf("New material in %s", course.Code)
	message := fmt.Sprintf("%q has been uploaded to %s.", material.Title, course.Title)
	link := fmt.Sprintf("/courses/%d/", course.ID)

	return n.queue.Enqueue(ctx, "notify-new-material", func(jobCtx context.Context) error {
		studentIDs, err := n.enrollmentRepo.ListActiveStudentIDs(jobCtx, courseID)
		if err != nil {
			return err
		}
		notifications := make([]models.Notification, 0, len(studentIDs))
		for _, studentID := range studentIDs {
			notifications = append(notifications, models.Notification{
				RecipientID: studentID,
				Type:        models.NotificationNewMaterial,
				Title:       title,
				Message:     message,
				Link:        link,
			})
		}
		return n.notifRepo.CreateBatch(jobCtx, notifications)
	})
}
