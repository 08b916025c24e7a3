package services

import (
	"bytes"
	stdContext "context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/services/repositories"
	log "github.com/sirupsen/logrus"
)

// ReportService generates CSV exports and stores them in object storage.
type ReportService struct {
	context.DefaultService

	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool

	dbSvc    *PostgresService
	moodRepo *repositories.MoodRepository
}

const REPORT_SVC = "report_svc"

func (svc ReportService) Id() string {
	return REPORT_SVC
}

func (svc *ReportService) Configure(ctx *context.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "moodz-reports"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *ReportService) Start() error {
	svc.dbSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.moodRepo = repositories.NewMoodRepository(svc.dbSvc.Db())

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("Report storage started with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *ReportService) ensureBucket() error {
	ctx := stdContext.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created MinIO bucket: %s", svc.bucketName)
	}

	return nil
}

// ExportMoodLogs writes a user's full mood history as CSV, uploads it and
// returns a presigned download URL.
func (svc *ReportService) ExportMoodLogs(userID string) (*dto.ExportResponse, error) {
	logs, err := svc.moodRepo.GetAllForUser(userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"id", "score", "note", "created_at"}); err != nil {
		return nil, err
	}
	for _, entry := range logs {
		record := []string{
			entry.ID,
			strconv.Itoa(entry.Score),
			entry.Note,
			entry.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("mood-exports/%s/%d.csv", userID, time.Now().Unix())

	ctx := stdContext.Background()
	_, err = svc.client.PutObject(ctx, svc.bucketName, objectName,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return nil, fmt.Errorf("failed to upload export: %v", err)
	}

	url, err := svc.client.PresignedGetObject(ctx, svc.bucketName, objectName, 24*time.Hour, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %v", err)
	}

	return &dto.ExportResponse{
		ObjectName: objectName,
		URL:        url.String(),
		Rows:       len(logs),
	}, nil
}
