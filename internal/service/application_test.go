package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/auth"
	"github.com/talentpool/pipeline/internal/notify"
	"github.com/talentpool/pipeline/internal/service"
	"github.com/talentpool/pipeline/internal/service/mappers"
	"github.com/talentpool/pipeline/internal/store"
	"github.com/talentpool/pipeline/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const (
	insertApplicationStm = "INSERT INTO applications (id, job_id, candidate_id, status, version, created_at) VALUES ('%s', '%s', '%s', '%s', 0, CURRENT_TIMESTAMP);"
)

var _ = Describe("application service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(testConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM timeline_entries;")
		gormdb.Exec("DELETE FROM applications;")
	})

	Context("create", func() {
		It("candidate submits an application for themselves", func() {
			candidate := auth.User{ID: uuid.New(), Username: "jane", Role: auth.RoleCandidate}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			application, err := srv.CreateApplication(context.TODO(), mappers.ApplicationCreateForm{
				JobID:       uuid.New(),
				CandidateID: candidate.ID,
			}, candidate)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusSubmitted))

			history, err := srv.History(context.TODO(), application.ID)
			Expect(err).To(BeNil())
			Expect(history).To(HaveLen(1))
			Expect(history[0].Status).To(Equal(model.ApplicationStatusSubmitted))
			Expect(history[0].ActorID).To(Equal(candidate.ID))
		})

		It("candidate may not submit for another candidate", func() {
			candidate := auth.User{ID: uuid.New(), Username: "jane", Role: auth.RoleCandidate}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.CreateApplication(context.TODO(), mappers.ApplicationCreateForm{
				JobID:       uuid.New(),
				CandidateID: uuid.New(),
			}, candidate)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM applications;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("hr submits on a candidate's behalf", func() {
			hr := auth.User{ID: uuid.New(), Username: "rec", Role: auth.RoleHR}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			application, err := srv.CreateApplication(context.TODO(), mappers.ApplicationCreateForm{
				JobID:       uuid.New(),
				CandidateID: uuid.New(),
			}, hr)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusSubmitted))
		})

		It("emits a notification after the commit", func() {
			writer := newTestWriter()
			candidate := auth.User{ID: uuid.New(), Username: "jane", Role: auth.RoleCandidate}
			srv := service.NewApplicationService(s, notify.NewDispatcher(writer))

			application, err := srv.CreateApplication(context.TODO(), mappers.ApplicationCreateForm{
				JobID:       uuid.New(),
				CandidateID: candidate.ID,
			}, candidate)
			Expect(err).To(BeNil())

			<-time.After(500 * time.Millisecond)

			messages := writer.Messages()
			Expect(messages).To(HaveLen(1))
			Expect(messages[0].Type()).To(Equal(notify.ApplicationMessageKind))

			notification := notify.ApplicationNotification{}
			Expect(json.Unmarshal(messages[0].Data(), &notification)).To(BeNil())
			Expect(notification.ApplicationID).To(Equal(application.ID))
			Expect(notification.Status).To(Equal("submitted"))
		})
	})

	Context("transition", func() {
		It("hr moves submitted to interviewing", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())

			hr := auth.User{ID: uuid.New(), Username: "rec", Role: auth.RoleHR}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			application, err := srv.Transition(context.TODO(), id, model.ApplicationStatusInterviewing, hr, "phone screen passed")
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusInterviewing))
			Expect(application.Version).To(Equal(1))

			history, err := srv.History(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(history).To(HaveLen(1))
			Expect(history[0].Status).To(Equal(model.ApplicationStatusInterviewing))
			Expect(history[0].Note).To(Equal("phone screen passed"))
		})

		It("hr moves the pipeline backwards", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "offer_extended"))
			Expect(tx.Error).To(BeNil())

			hr := auth.User{ID: uuid.New(), Username: "rec", Role: auth.RoleHR}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			application, err := srv.Transition(context.TODO(), id, model.ApplicationStatusInterviewing, hr, "one more round")
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusInterviewing))
		})

		It("candidate withdraws their own application", func() {
			id := uuid.New()
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), candidateID, "interviewing"))
			Expect(tx.Error).To(BeNil())

			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			application, err := srv.Transition(context.TODO(), id, model.ApplicationStatusWithdrawn, candidate, "found another job")
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusWithdrawn))
		})

		It("candidate may not withdraw someone else's application", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "interviewing"))
			Expect(tx.Error).To(BeNil())

			candidate := auth.User{ID: uuid.New(), Username: "mallory", Role: auth.RoleCandidate}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.Transition(context.TODO(), id, model.ApplicationStatusWithdrawn, candidate, "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("candidate may not reject", func() {
			id := uuid.New()
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), candidateID, "submitted"))
			Expect(tx.Error).To(BeNil())

			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.Transition(context.TODO(), id, model.ApplicationStatusRejected, candidate, "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("hired can not be requested directly", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "offer_extended"))
			Expect(tx.Error).To(BeNil())

			admin := auth.User{ID: uuid.New(), Username: "root", Role: auth.RoleAdmin}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.Transition(context.TODO(), id, model.ApplicationStatusHired, admin, "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("there is no edge from submitted to hired", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())

			admin := auth.User{ID: uuid.New(), Username: "root", Role: auth.RoleAdmin}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.Transition(context.TODO(), id, model.ApplicationStatusHired, admin, "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
		})

		It("nothing leaves a terminal status", func() {
			for _, status := range []string{"hired", "rejected", "withdrawn"} {
				id := uuid.New()
				tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), status))
				Expect(tx.Error).To(BeNil())

				admin := auth.User{ID: uuid.New(), Username: "root", Role: auth.RoleAdmin}
				srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

				_, err := srv.Transition(context.TODO(), id, model.ApplicationStatusSubmitted, admin, "")
				Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
			}
		})

		It("a failed transition leaves no timeline entry", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "hired"))
			Expect(tx.Error).To(BeNil())

			admin := auth.User{ID: uuid.New(), Username: "root", Role: auth.RoleAdmin}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.Transition(context.TODO(), id, model.ApplicationStatusRejected, admin, "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM timeline_entries;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("failed to transition -- application does not exist", func() {
			hr := auth.User{ID: uuid.New(), Username: "rec", Role: auth.RoleHR}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.Transition(context.TODO(), uuid.New(), model.ApplicationStatusInterviewing, hr, "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("status and history", func() {
		It("current status follows the transitions", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())

			hr := auth.User{ID: uuid.New(), Username: "rec", Role: auth.RoleHR}
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))

			_, err := srv.Transition(context.TODO(), id, model.ApplicationStatusInterviewing, hr, "")
			Expect(err).To(BeNil())
			_, err = srv.Transition(context.TODO(), id, model.ApplicationStatusOfferExtended, hr, "")
			Expect(err).To(BeNil())

			status, err := srv.CurrentStatus(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(status).To(Equal(model.ApplicationStatusOfferExtended))

			history, err := srv.History(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(history).To(HaveLen(2))
			Expect(history[0].Status).To(Equal(model.ApplicationStatusInterviewing))
			Expect(history[1].Status).To(Equal(model.ApplicationStatusOfferExtended))
		})

		It("failed to read history -- application does not exist", func() {
			srv := service.NewApplicationService(s, notify.NewDispatcher(newTestWriter()))
			_, err := srv.History(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
