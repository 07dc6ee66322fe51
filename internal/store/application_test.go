package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store"
	"github.com/talentpool/pipeline/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const (
	insertApplicationStm            = "INSERT INTO applications (id, job_id, candidate_id, status, version, created_at) VALUES ('%s', '%s', '%s', '%s', 0, CURRENT_TIMESTAMP);"
	insertApplicationWithVersionStm = "INSERT INTO applications (id, job_id, candidate_id, status, version, created_at) VALUES ('%s', '%s', '%s', '%s', %d, CURRENT_TIMESTAMP);"
)

var _ = Describe("application store", Ordered, func() {
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

	Context("list", func() {
		It("successfully list all the applications", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, uuid.NewString(), uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertApplicationStm, uuid.NewString(), uuid.NewString(), uuid.NewString(), "interviewing"))
			Expect(tx.Error).To(BeNil())

			applications, err := s.Application().List(context.TODO(), store.NewApplicationQueryFilter())
			Expect(err).To(BeNil())
			Expect(applications).To(HaveLen(2))
		})

		It("list all applications -- no applications", func() {
			applications, err := s.Application().List(context.TODO(), store.NewApplicationQueryFilter())
			Expect(err).To(BeNil())
			Expect(applications).To(HaveLen(0))
		})

		It("successfully list the candidate's applications", func() {
			candidateID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, uuid.NewString(), uuid.NewString(), candidateID, "submitted"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertApplicationStm, uuid.NewString(), uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())

			applications, err := s.Application().List(context.TODO(), store.NewApplicationQueryFilter().ByCandidateID(candidateID))
			Expect(err).To(BeNil())
			Expect(applications).To(HaveLen(1))
			Expect(applications[0].CandidateID).To(Equal(candidateID))
		})

		It("successfully list by status", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, uuid.NewString(), uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertApplicationStm, uuid.NewString(), uuid.NewString(), uuid.NewString(), "hired"))
			Expect(tx.Error).To(BeNil())

			applications, err := s.Application().List(context.TODO(), store.NewApplicationQueryFilter().ByStatus(model.ApplicationStatusHired))
			Expect(err).To(BeNil())
			Expect(applications).To(HaveLen(1))
			Expect(applications[0].Status).To(Equal(model.ApplicationStatusHired))
		})

		AfterEach(func() {
			gormdb.Exec("DELETE FROM applications;")
		})
	})

	Context("get", func() {
		It("successfully get an application", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())

			application, err := s.Application().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(application).ToNot(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusSubmitted))
		})

		It("failed to get an application -- does not exist", func() {
			application, err := s.Application().Get(context.TODO(), uuid.New())
			Expect(err).To(Equal(store.ErrRecordNotFound))
			Expect(application).To(BeNil())
		})

		AfterEach(func() {
			gormdb.Exec("DELETE FROM applications;")
		})
	})

	Context("create", func() {
		It("successfully creates an application", func() {
			m := model.Application{
				ID:          uuid.New(),
				JobID:       uuid.New(),
				CandidateID: uuid.New(),
				Status:      model.ApplicationStatusSubmitted,
			}
			application, err := s.Application().Create(context.TODO(), m)
			Expect(err).To(BeNil())
			Expect(application).ToNot(BeNil())
			Expect(application.Version).To(Equal(0))

			count := 0
			err = gormdb.Raw("SELECT COUNT(*) FROM applications;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(1))
		})

		AfterEach(func() {
			gormdb.Exec("DELETE FROM applications;")
		})
	})

	Context("update status", func() {
		It("successfully updates the status and bumps the version", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, id, uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())

			err := s.Application().UpdateStatus(context.TODO(), id, 0, model.ApplicationStatusInterviewing)
			Expect(err).To(BeNil())

			application, err := s.Application().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusInterviewing))
			Expect(application.Version).To(Equal(1))
		})

		It("refuses a stale version", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationWithVersionStm, id, uuid.NewString(), uuid.NewString(), "submitted", 3))
			Expect(tx.Error).To(BeNil())

			err := s.Application().UpdateStatus(context.TODO(), id, 2, model.ApplicationStatusInterviewing)
			Expect(err).To(Equal(store.ErrConcurrentUpdate))

			application, err := s.Application().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(application.Status).To(Equal(model.ApplicationStatusSubmitted))
			Expect(application.Version).To(Equal(3))
		})

		It("failed to update -- application does not exist", func() {
			err := s.Application().UpdateStatus(context.TODO(), uuid.New(), 0, model.ApplicationStatusInterviewing)
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})

		AfterEach(func() {
			gormdb.Exec("DELETE FROM applications;")
		})
	})
})
