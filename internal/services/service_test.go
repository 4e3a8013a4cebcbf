package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"reviewhub/internal/database"
	"reviewhub/internal/models"
)

type testEnv struct {
	db          *gorm.DB
	reviews     *ReviewService
	summaries   *RatingSummaryService
	helpfulness *HelpfulnessService
	responses   *ResponseService
	images      *ImageStorageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	summaries := NewRatingSummaryService(db)
	images := NewImageStorageService(db, nil)
	responses := NewResponseService(db)

	return &testEnv{
		db:          db,
		reviews:     NewReviewService(db, summaries, images, responses),
		summaries:   summaries,
		helpfulness: NewHelpfulnessService(db),
		responses:   responses,
		images:      images,
	}
}

func (e *testEnv) createReview(t *testing.T, entityType, entityID, userID string, rating int) *ReviewDetail {
	t.Helper()

	review, err := e.reviews.CreateReview(CreateReviewRequest{
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Rating:     rating,
		Title:      "title",
		Comment:    "comment",
	}, nil)
	require.NoError(t, err)
	return review
}

func (e *testEnv) markVerified(t *testing.T, reviewID uint) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Review{}).
		Where("id = ?", reviewID).Update("verified", true).Error)
}

// fileHeader builds a real multipart.FileHeader the way an HTTP upload would.
func fileHeader(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="images"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["images"][0]
}
