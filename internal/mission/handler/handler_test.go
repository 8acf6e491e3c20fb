package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"finhabit/internal/mission/handler/mocks"
	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	dErrors "finhabit/pkg/domain-errors"
	"finhabit/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  http.Handler
	owner   id.UserID
	now     time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.owner = id.UserID(uuid.New())
	s.now = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, path string, anonymous bool) *httptest.ResponseRecorder {
	req := testutil.NewRequest(s.T(), method, path)
	if anonymous {
		req = testutil.WithRequestTime(req, s.now)
	} else {
		req = testutil.WithAuth(req, s.owner.String(), s.now)
	}
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(v))
}

func (s *HandlerSuite) detail(done, target int) *models.AssignmentDetail {
	tpl := &models.TaskTemplate{ID: id.NewTemplateID(), Content: "Skip one delivery order", MinLevel: 1, TargetCount: target}
	a := models.NewAssignment(id.NewAssignmentID(), s.owner, tpl.ID, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	for range done {
		a.ApplyCheck(target, a.AssignedDate)
	}
	a.Version = 7
	return &models.AssignmentDetail{Assignment: a, Template: tpl}
}

func (s *HandlerSuite) TestRequiresAuthenticatedOwner() {
	for _, path := range []string{"/api/mission/today", "/api/mission/archive"} {
		rec := s.do(http.MethodGet, path, true)
		s.Equal(http.StatusUnauthorized, rec.Code, path)
	}
	rec := s.do(http.MethodPost, "/api/mission/"+uuid.NewString()+"/check", true)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestToday() {
	s.Run("renders today and ongoing", func() {
		today := s.detail(0, 3)
		ongoing := s.detail(1, 2)
		s.service.EXPECT().Today(gomock.Any(), s.owner, s.now).
			Return(&models.Today{Today: today, Ongoing: []*models.AssignmentDetail{ongoing}}, nil)

		rec := s.do(http.MethodGet, "/api/mission/today", false)
		s.Require().Equal(http.StatusOK, rec.Code)

		var body map[string]any
		s.decode(rec, &body)
		todayView := body["today"].(map[string]any)
		s.Equal(today.Assignment.ID.String(), todayView["assignment_id"])
		s.Equal("Skip one delivery order", todayView["content"])
		s.Equal(float64(3), todayView["target_count"])
		s.Equal("2026-03-09", todayView["week_start"])
		s.Equal("2026-03-11", todayView["assigned_date"])
		s.Nil(todayView["completed_at"])
		s.NotContains(todayView, "version")

		ongoingViews := body["ongoing"].([]any)
		s.Require().Len(ongoingViews, 1)
		s.Equal(float64(50), ongoingViews[0].(map[string]any)["progress"])
	})

	s.Run("none available renders null today and empty ongoing", func() {
		s.service.EXPECT().Today(gomock.Any(), s.owner, s.now).Return(&models.Today{}, nil)

		rec := s.do(http.MethodGet, "/api/mission/today", false)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"today":null,"ongoing":[]}`, rec.Body.String())
	})

	s.Run("unknown owner is 404", func() {
		s.service.EXPECT().Today(gomock.Any(), s.owner, s.now).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "user not found"))

		rec := s.do(http.MethodGet, "/api/mission/today", false)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestProgress() {
	s.Run("check returns the updated view", func() {
		d := s.detail(2, 2)
		s.service.EXPECT().Check(gomock.Any(), s.owner, d.Assignment.ID, s.now).Return(d, nil)

		rec := s.do(http.MethodPost, "/api/mission/"+d.Assignment.ID.String()+"/check", false)
		s.Require().Equal(http.StatusOK, rec.Code)

		var body AssignmentResponse
		s.decode(rec, &body)
		s.Equal(2, body.DoneCount)
		s.Equal(100, body.Progress)
		s.True(body.Completed)
		s.Require().NotNil(body.CompletedAt)
		s.Equal("2026-03-11", *body.CompletedAt)
	})

	s.Run("uncheck routes to Uncheck", func() {
		d := s.detail(0, 2)
		s.service.EXPECT().Uncheck(gomock.Any(), s.owner, d.Assignment.ID, s.now).Return(d, nil)

		rec := s.do(http.MethodPost, "/api/mission/"+d.Assignment.ID.String()+"/uncheck", false)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("malformed id is 400 without calling the service", func() {
		rec := s.do(http.MethodPost, "/api/mission/not-a-uuid/check", false)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeForbidden, http.StatusForbidden},
		{dErrors.CodeConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		s.Run("maps "+string(tc.code), func() {
			assignmentID := id.NewAssignmentID()
			s.service.EXPECT().Check(gomock.Any(), s.owner, assignmentID, s.now).
				Return(nil, dErrors.New(tc.code, "nope"))

			rec := s.do(http.MethodPost, "/api/mission/"+assignmentID.String()+"/check", false)
			s.Equal(tc.status, rec.Code)

			var body map[string]string
			s.decode(rec, &body)
			s.Equal(string(tc.code), body["error"])
			s.Equal("nope", body["error_description"])
		})
	}

	s.Run("internal errors hide the description", func() {
		assignmentID := id.NewAssignmentID()
		s.service.EXPECT().Uncheck(gomock.Any(), s.owner, assignmentID, s.now).
			Return(nil, dErrors.Wrap(context.DeadlineExceeded, dErrors.CodeInternal, "failed to update mission"))

		rec := s.do(http.MethodPost, "/api/mission/"+assignmentID.String()+"/uncheck", false)
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.JSONEq(`{"error":"internal_error"}`, rec.Body.String())
	})
}

func (s *HandlerSuite) TestArchive() {
	s.Run("renders weeks in service order", func() {
		newer := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		older := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		s.service.EXPECT().GetCompletedByWeek(gomock.Any(), s.owner).Return([]*models.ArchiveWeek{
			{WeekStart: newer, WeekEnd: models.WeekEnd(newer), Assignments: []*models.AssignmentDetail{s.detail(1, 1)}},
			{WeekStart: older, WeekEnd: models.WeekEnd(older), Assignments: []*models.AssignmentDetail{s.detail(1, 1)}},
		}, nil)

		rec := s.do(http.MethodGet, "/api/mission/archive", false)
		s.Require().Equal(http.StatusOK, rec.Code)

		var body []ArchiveWeekResponse
		s.decode(rec, &body)
		s.Require().Len(body, 2)
		s.Equal("2026-03-09", body[0].WeekStart)
		s.Equal("2026-03-15", body[0].WeekEnd)
		s.Equal("2026-03-02", body[1].WeekStart)
		s.Len(body[1].Assignments, 1)
	})

	s.Run("empty archive is an empty array", func() {
		s.service.EXPECT().GetCompletedByWeek(gomock.Any(), s.owner).Return(nil, nil)

		rec := s.do(http.MethodGet, "/api/mission/archive", false)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})
}
