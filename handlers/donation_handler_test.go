package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/models"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/repositories/mocks"
	"github.com/psf-initiatives/admin-api/services/donations"
	"github.com/psf-initiatives/admin-api/services/receipts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type stubStorage struct {
	configured bool
}

func (s *stubStorage) Configured() bool { return s.configured }

func (s *stubStorage) Upload(_ context.Context, obj receipts.Object) (*receipts.Result, error) {
	return &receipts.Result{
		URL:      "https://res.cloudinary.com/psf/" + obj.PublicID,
		PublicID: "donation_receipts/" + obj.PublicID,
	}, nil
}

func newDonationHandler(storage receipts.Storage) (*DonationHandler, *mocks.DonationRepository) {
	repo := new(mocks.DonationRepository)
	svc := donations.NewService(repo, &mocks.InlineTransactionManager{}, storage, "NG", zap.NewNop())
	return NewDonationHandler(svc, zap.NewNop()), repo
}

func receiptForm(t *testing.T, donationID, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	require.NoError(t, mw.WriteField("donation_id", donationID))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="receipt"; filename="receipt.bin"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{'x'}, size))
	require.NoError(t, err)

	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestDonationHandler_Create(t *testing.T) {
	t.Run("created with normalized phone", func(t *testing.T) {
		h, repo := newDonationHandler(nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(d *models.Donation) bool {
			return d.DonorPhone == "+2348031234567" && d.Status == models.DonationStatusPending
		})).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/", jsonBody(t, CreateDonationRequest{
			Title: "Back To School", DonorName: "Jane", DonorEmail: "jane@x.com",
			DonorPhone: "08031234567", Amount: 2500,
		}))
		w := serve(http.MethodPost, "/", h.HandleCreate, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Donation created successfully", decodeEnvelope(t, w).Message)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		h, repo := newDonationHandler(nil)
		req := httptest.NewRequest(http.MethodPost, "/", jsonBody(t, CreateDonationRequest{
			Title: "Back To School", DonorName: "Jane", DonorEmail: "jane@x.com", Amount: 0,
		}))
		w := serve(http.MethodPost, "/", h.HandleCreate, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Donation amount must be greater than 0", decodeEnvelope(t, w).Detail)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		h, _ := newDonationHandler(nil)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		w := serve(http.MethodPost, "/", h.HandleCreate, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeEnvelope(t, w).Detail)
	})
}

func TestDonationHandler_UploadReceipt(t *testing.T) {
	t.Run("success stores receipt url", func(t *testing.T) {
		h, repo := newDonationHandler(&stubStorage{configured: true})
		d := models.NewDonation("Back To School", "Jane", "jane@x.com", "", 100)
		repo.On("GetByID", mock.Anything, d.ID).Return(d, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.Donation) bool {
			return u.PaymentReference != nil && strings.HasPrefix(*u.PaymentReference, "https://res.cloudinary.com/psf/receipts/back_to_school_")
		})).Return(nil)

		body, ct := receiptForm(t, d.ID.String(), "image/png", 1024)
		req := httptest.NewRequest(http.MethodPost, "/upload-receipt", body)
		req.Header.Set("Content-Type", ct)
		w := serve(http.MethodPost, "/upload-receipt", h.HandleUploadReceipt, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := decodeEnvelope(t, w)
		assert.Equal(t, "Receipt uploaded successfully", env.Message)

		var result donations.ReceiptResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, d.ID.String(), result.DonationID)
		assert.True(t, strings.HasPrefix(result.Filename, "back_to_school_"))
	})

	tests := []struct {
		name        string
		storage     *stubStorage
		contentType string
		size        int
		donationID  string
		wantStatus  int
		wantDetail  string
	}{
		{"storage unconfigured", &stubStorage{}, "text/plain", 10, "bad", http.StatusInternalServerError,
			"Cloudinary configuration is incomplete. Please check your environment variables."},
		{"wrong type", &stubStorage{configured: true}, "text/plain", 10, "bad", http.StatusBadRequest,
			"Invalid file type. Only JPEG, PNG, and PDF files are allowed."},
		{"too large", &stubStorage{configured: true}, "application/pdf", receipts.MaxSize + 1, "bad", http.StatusBadRequest,
			"File size exceeds 5MB limit"},
		{"bad donation id", &stubStorage{configured: true}, "image/jpeg", 10, "bad", http.StatusBadRequest,
			"Invalid donation ID format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newDonationHandler(tt.storage)
			body, ct := receiptForm(t, tt.donationID, tt.contentType, tt.size)
			req := httptest.NewRequest(http.MethodPost, "/upload-receipt", body)
			req.Header.Set("Content-Type", ct)
			w := serve(http.MethodPost, "/upload-receipt", h.HandleUploadReceipt, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDetail, decodeEnvelope(t, w).Detail)
		})
	}

	t.Run("missing donation", func(t *testing.T) {
		h, repo := newDonationHandler(&stubStorage{configured: true})
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		body, ct := receiptForm(t, id.String(), "image/jpeg", 10)
		req := httptest.NewRequest(http.MethodPost, "/upload-receipt", body)
		req.Header.Set("Content-Type", ct)
		w := serve(http.MethodPost, "/upload-receipt", h.HandleUploadReceipt, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Donation not found", decodeEnvelope(t, w).Detail)
	})
}

func TestDonationHandler_ListAndGet(t *testing.T) {
	t.Run("list reports page", func(t *testing.T) {
		h, repo := newDonationHandler(nil)
		repo.On("List", mock.Anything, models.DonationFilter{Title: "Gala", Offset: 20, Limit: 10}).
			Return([]*models.Donation{}, nil)
		repo.On("Count", mock.Anything, "Gala").Return(25, nil)

		req := httptest.NewRequest(http.MethodGet, "/?skip=20&limit=10&title=Gala", nil)
		w := serve(http.MethodGet, "/", h.HandleList, asAdmin(req, models.NewAdmin("a@x.com", "A", "h", models.RoleAdmin)))

		require.Equal(t, http.StatusOK, w.Code)
		var page donations.Page
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))
		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 3, page.Page)
		assert.Equal(t, 10, page.Limit)
	})

	t.Run("get missing", func(t *testing.T) {
		h, repo := newDonationHandler(nil)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		w := serve(http.MethodGet, "/{id}", h.HandleGet, httptest.NewRequest(http.MethodGet, "/"+id.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Donation not found", decodeEnvelope(t, w).Detail)
	})

	t.Run("get bad id", func(t *testing.T) {
		h, _ := newDonationHandler(nil)
		w := serve(http.MethodGet, "/{id}", h.HandleGet, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid donation ID format", decodeEnvelope(t, w).Detail)
	})
}

func TestDonationHandler_Verify(t *testing.T) {
	h, repo := newDonationHandler(nil)
	d := models.NewDonation("Gala", "Jane", "jane@x.com", "", 100)
	repo.On("GetByID", mock.Anything, d.ID).Return(d, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	w := serve(http.MethodPost, "/{id}/verify", h.HandleVerify,
		httptest.NewRequest(http.MethodPost, "/"+d.ID.String()+"/verify", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Donation verified successfully", env.Message)
	assert.JSONEq(t, `{"donation_id":"`+d.ID.String()+`","status":"completed"}`, string(env.Data))
}

func TestDonationHandler_Export(t *testing.T) {
	h, repo := newDonationHandler(nil)
	d := models.NewDonation("Gala", "Jane", "jane@x.com", "", 100)
	repo.On("List", mock.Anything, models.DonationFilter{Title: "Gala", Limit: donations.MaxLimit}).
		Return([]*models.Donation{d}, nil)

	w := serve(http.MethodGet, "/export", h.HandleExport, httptest.NewRequest(http.MethodGet, "/export?title=Gala", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, donations.ExportContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "donations_gala.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Donations")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jane", rows[1][2])
}
