package store_test

import (
	"context"
	"database/sql"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/index-orchestrator/internal/models"
	"github.com/kubev2v/index-orchestrator/internal/store"
	"github.com/kubev2v/index-orchestrator/internal/store/migrations"
	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
)

var _ = Describe("EntityStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Save and Get", func() {
		It("should return EntityNotFound for a missing entity", func() {
			_, err := s.Entities().Get(ctx, "missing")

			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should upsert an entity", func() {
			// Arrange
			Expect(s.Entities().Save(ctx, models.Entity{ID: "e1", Type: "book", Title: "Dune"})).To(Succeed())

			// Act
			Expect(s.Entities().Save(ctx, models.Entity{ID: "e1", Type: "book", Title: "Dune Messiah"})).To(Succeed())

			// Assert
			e, err := s.Entities().Get(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Title).To(Equal("Dune Messiah"))
			count, err := s.Entities().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})
	})

	Context("Delete", func() {
		It("should remove the entity", func() {
			Expect(s.Entities().Save(ctx, models.Entity{ID: "e1"})).To(Succeed())

			Expect(s.Entities().Delete(ctx, "e1")).To(Succeed())

			_, err := s.Entities().Get(ctx, "e1")
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should not fail on a missing entity", func() {
			Expect(s.Entities().Delete(ctx, "missing")).To(Succeed())
		})
	})

	Context("Apply", func() {
		// Given operations touching the same entity several times
		// When they are applied together
		// Then only the last operation of each entity counts
		It("should keep the last operation of each entity", func() {
			ops := []models.Operation{
				{Type: models.OperationAdd, Entity: models.Entity{ID: "e1", Title: "first"}},
				{Type: models.OperationAdd, Entity: models.Entity{ID: "e2", Title: "kept"}},
				{Type: models.OperationUpdate, Entity: models.Entity{ID: "e1", Title: "second"}},
				{Type: models.OperationAdd, Entity: models.Entity{ID: "e3", Title: "gone"}},
				{Type: models.OperationDelete, Entity: models.Entity{ID: "e3"}},
			}

			Expect(s.Entities().Apply(ctx, ops)).To(Succeed())

			e1, err := s.Entities().Get(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e1.Title).To(Equal("second"))
			_, err = s.Entities().Get(ctx, "e3")
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
			count, err := s.Entities().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			for i := 0; i < 7; i++ {
				Expect(s.Entities().Save(ctx, models.Entity{ID: fmt.Sprintf("e%02d", i)})).To(Succeed())
			}
		})

		It("should page through entities in id order", func() {
			var ids []string
			after := ""
			for {
				page, err := s.Entities().List(ctx, after, 3)
				Expect(err).NotTo(HaveOccurred())
				if len(page) == 0 {
					break
				}
				for _, e := range page {
					ids = append(ids, e.ID)
				}
				after = page[len(page)-1].ID
			}

			Expect(ids).To(Equal([]string{"e00", "e01", "e02", "e03", "e04", "e05", "e06"}))
		})

		It("should return everything without a limit", func() {
			page, err := s.Entities().List(ctx, "", 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(7))
		})
	})
})
