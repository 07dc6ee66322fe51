package service_test

import (
	"context"
	"fmt"

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

var _ = Describe("offer service", Ordered, func() {
	var (
		s            store.Store
		gormdb       *gorm.DB
		applications *service.ApplicationService
		offers       *service.OfferService
	)

	newOfferForm := func(applicationID uuid.UUID) mappers.OfferCreateForm {
		return mappers.OfferCreateForm{
			ApplicationID: applicationID,
			Amount:        5500000,
			Currency:      "EUR",
		}
	}

	BeforeAll(func() {
		db, err := store.InitDB(testConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		notifier := notify.NewDispatcher(newTestWriter())
		applications = service.NewApplicationService(s, notifier)
		offers = service.NewOfferService(s, applications, notifier)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM timeline_entries;")
		gormdb.Exec("DELETE FROM sales_offers;")
		gormdb.Exec("DELETE FROM applications;")
	})

	Context("create", func() {
		It("sales extends an offer on an offer-extended application", func() {
			applicationID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, uuid.NewString(), uuid.NewString(), "offer_extended"))
			Expect(tx.Error).To(BeNil())

			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			offer, err := offers.Create(context.TODO(), newOfferForm(applicationID), sales)
			Expect(err).To(BeNil())
			Expect(offer.Status).To(Equal(model.OfferStatusPending))
			Expect(offer.ApplicantResponse).To(Equal(model.ResponsePending))
			Expect(offer.SalesResponse).To(Equal(model.ReviewPending))
			Expect(offer.CreatedByID).To(Equal(sales.ID))
		})

		It("candidate may not create offers", func() {
			applicationID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, uuid.NewString(), uuid.NewString(), "offer_extended"))
			Expect(tx.Error).To(BeNil())

			candidate := auth.User{ID: uuid.New(), Username: "jane", Role: auth.RoleCandidate}
			_, err := offers.Create(context.TODO(), newOfferForm(applicationID), candidate)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("the application has to be offer-extended", func() {
			applicationID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, uuid.NewString(), uuid.NewString(), "submitted"))
			Expect(tx.Error).To(BeNil())

			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			_, err := offers.Create(context.TODO(), newOfferForm(applicationID), sales)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidState{}))
		})

		It("refuses a second active offer", func() {
			applicationID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, uuid.NewString(), uuid.NewString(), "offer_extended"))
			Expect(tx.Error).To(BeNil())

			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			_, err := offers.Create(context.TODO(), newOfferForm(applicationID), sales)
			Expect(err).To(BeNil())

			_, err = offers.Create(context.TODO(), newOfferForm(applicationID), sales)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrConflictingOffer{}))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM sales_offers;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})
	})

	Context("applicant response", func() {
		var (
			candidateID   uuid.UUID
			applicationID uuid.UUID
			offerID       uuid.UUID
		)

		BeforeEach(func() {
			candidateID = uuid.New()
			applicationID = uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, uuid.NewString(), candidateID, "offer_extended"))
			Expect(tx.Error).To(BeNil())

			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			offer, err := offers.Create(context.TODO(), newOfferForm(applicationID), sales)
			Expect(err).To(BeNil())
			offerID = offer.ID
		})

		It("an acceptance closes the offer and hires in one step", func() {
			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			updated, err := offers.ApplicantRespond(context.TODO(), offerID, candidate, model.ResponseAccepted, nil)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.OfferStatusAccepted))
			Expect(updated.ApplicantResponse).To(Equal(model.ResponseAccepted))

			status, err := applications.CurrentStatus(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(status).To(Equal(model.ApplicationStatusHired))

			history, err := applications.History(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(history).To(HaveLen(1))
			Expect(history[0].Status).To(Equal(model.ApplicationStatusHired))
			Expect(history[0].Note).To(Equal("offer accepted"))
		})

		It("accepting twice fails cleanly and writes nothing", func() {
			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			_, err := offers.ApplicantRespond(context.TODO(), offerID, candidate, model.ResponseAccepted, nil)
			Expect(err).To(BeNil())

			_, err = offers.ApplicantRespond(context.TODO(), offerID, candidate, model.ResponseAccepted, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidState{}))

			history, err := applications.History(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(history).To(HaveLen(1))
		})

		It("a rejection queues the offer for sales review", func() {
			notes := "salary below expectations"
			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			updated, err := offers.ApplicantRespond(context.TODO(), offerID, candidate, model.ResponseRejected, &notes)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.OfferStatusRejected))
			Expect(updated.SalesResponse).To(Equal(model.ReviewPending))

			// the application is untouched
			status, err := applications.CurrentStatus(context.TODO(), applicationID)
			Expect(err).To(BeNil())
			Expect(status).To(Equal(model.ApplicationStatusOfferExtended))

			pending, err := offers.ListPendingReviews(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ID).To(Equal(offerID))
		})

		It("another candidate may not respond", func() {
			stranger := auth.User{ID: uuid.New(), Username: "mallory", Role: auth.RoleCandidate}
			_, err := offers.ApplicantRespond(context.TODO(), offerID, stranger, model.ResponseAccepted, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("an acceptance on a closed application does not land halfway", func() {
			hr := auth.User{ID: uuid.New(), Username: "rec", Role: auth.RoleHR}
			_, err := applications.Transition(context.TODO(), applicationID, model.ApplicationStatusRejected, hr, "position cancelled")
			Expect(err).To(BeNil())

			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			_, err = offers.ApplicantRespond(context.TODO(), offerID, candidate, model.ResponseAccepted, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))

			// the offer update rolled back together with the failed transition
			offer, err := offers.GetOffer(context.TODO(), offerID)
			Expect(err).To(BeNil())
			Expect(offer.Status).To(Equal(model.OfferStatusPending))
			Expect(offer.ApplicantResponse).To(Equal(model.ResponsePending))
		})
	})

	Context("sales review", func() {
		var (
			candidateID   uuid.UUID
			applicationID uuid.UUID
			offerID       uuid.UUID
		)

		BeforeEach(func() {
			candidateID = uuid.New()
			applicationID = uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, applicationID, uuid.NewString(), candidateID, "offer_extended"))
			Expect(tx.Error).To(BeNil())

			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			offer, err := offers.Create(context.TODO(), newOfferForm(applicationID), sales)
			Expect(err).To(BeNil())
			offerID = offer.ID

			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			_, err = offers.ApplicantRespond(context.TODO(), offerID, candidate, model.ResponseRejected, nil)
			Expect(err).To(BeNil())
		})

		It("an approval settles the offer and clears the queue", func() {
			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			updated, err := offers.ReviewDecision(context.TODO(), offerID, sales, model.ReviewApproved, nil)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.OfferStatusSalesApproved))
			Expect(updated.SalesResponse).To(Equal(model.ReviewApproved))

			pending, err := offers.ListPendingReviews(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(pending).To(HaveLen(0))
		})

		It("a settled offer makes room for a new one", func() {
			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			_, err := offers.ReviewDecision(context.TODO(), offerID, sales, model.ReviewRejected, nil)
			Expect(err).To(BeNil())

			offer, err := offers.Create(context.TODO(), newOfferForm(applicationID), sales)
			Expect(err).To(BeNil())
			Expect(offer.Status).To(Equal(model.OfferStatusPending))
		})

		It("reviewing twice is refused", func() {
			sales := auth.User{ID: uuid.New(), Username: "seller", Role: auth.RoleSales}
			_, err := offers.ReviewDecision(context.TODO(), offerID, sales, model.ReviewApproved, nil)
			Expect(err).To(BeNil())

			_, err = offers.ReviewDecision(context.TODO(), offerID, sales, model.ReviewRejected, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidState{}))
		})

		It("candidate may not review", func() {
			candidate := auth.User{ID: candidateID, Username: "jane", Role: auth.RoleCandidate}
			_, err := offers.ReviewDecision(context.TODO(), offerID, candidate, model.ReviewApproved, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("filters the queue by creator", func() {
			creator := auth.User{ID: uuid.New(), Username: "other-seller", Role: auth.RoleSales}

			otherApplication := uuid.New()
			otherCandidate := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertApplicationStm, otherApplication, uuid.NewString(), otherCandidate, "offer_extended"))
			Expect(tx.Error).To(BeNil())

			offer, err := offers.Create(context.TODO(), newOfferForm(otherApplication), creator)
			Expect(err).To(BeNil())

			candidate := auth.User{ID: otherCandidate, Username: "john", Role: auth.RoleCandidate}
			_, err = offers.ApplicantRespond(context.TODO(), offer.ID, candidate, model.ResponseRejected, nil)
			Expect(err).To(BeNil())

			pending, err := offers.ListPendingReviews(context.TODO(), &creator.ID)
			Expect(err).To(BeNil())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].CreatedByID).To(Equal(creator.ID))
		})
	})
})
