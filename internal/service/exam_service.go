package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/repository"
	"fibu_trainer_backend/internal/util"
	"fibu_trainer_backend/pkg/monitoring"
)

type ExamService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewExamService(userRepo *repository.UserRepository, logger *zap.Logger) *ExamService {
	return &ExamService{userRepo: userRepo, logger: logger}
}

// RecordExam appends the exam to the user's history, recomputes the
// rolling aggregates from the full history and evaluates badge rules,
// all inside one locked update. It returns the badges earned by this
// exam.
func (s *ExamService) RecordExam(email string, exam model.ExamRecord) ([]model.Badge, error) {
	if exam.Date.IsZero() {
		exam.Date = time.Now()
	}

	var newBadges []model.Badge
	err := s.userRepo.UpdateLocked(email, func(u *model.User) error {
		preExamsTaken := u.ExamsTaken
		preSolved := u.TotalTasksSolved

		u.Exams = append(u.Exams, exam)

		var sumCorrect, sumMax int
		var sumPct, bestPct float64
		for _, e := range u.Exams {
			sumCorrect += e.Correct
			sumMax += e.MaxPoints
			sumPct += e.Percentage
			if e.Percentage > bestPct {
				bestPct = e.Percentage
			}
		}

		u.ExamsTaken = len(u.Exams)
		u.TotalTasksSolved += exam.Correct
		if sumMax > 0 {
			u.AverageAccuracy = 100 * float64(sumCorrect) / float64(sumMax)
		}
		u.AverageExamScore = sumPct / float64(len(u.Exams))
		u.BestExamScore = bestPct

		newBadges = evaluateBadges(u, exam, preExamsTaken, preSolved)
		u.Badges = append(u.Badges, newBadges...)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	monitoring.ExamsRecorded.Inc()
	if len(newBadges) > 0 {
		monitoring.BadgesAwarded.Add(float64(len(newBadges)))
		s.logger.Info("badges awarded",
			zap.String("email", email),
			zap.Int("count", len(newBadges)))
	}
	return newBadges, nil
}

// evaluateBadges applies the rules in catalog order. Rules are
// independent: one exam can earn several badges at once. Already-owned
// badges are skipped, never re-awarded.
func evaluateBadges(u *model.User, exam model.ExamRecord, preExamsTaken, preSolved int) []model.Badge {
	now := time.Now()
	var earned []model.Badge

	award := func(id string) {
		if u.HasBadge(id) {
			return
		}
		for _, b := range earned {
			if b.ID == id {
				return
			}
		}
		if badge, ok := model.NewBadge(id, now); ok {
			earned = append(earned, badge)
		}
	}

	if preExamsTaken == 0 {
		award(model.BadgeFirstExam)
	}
	if exam.Percentage >= 80 {
		award(model.BadgeHighScorer)
	}
	if preSolved+exam.Correct >= 50 {
		award(model.BadgeTaskMaster)
	}
	if preExamsTaken+1 >= 5 {
		award(model.BadgeExamVeteran)
	}
	if exam.Percentage == 100 {
		award(model.BadgePerfectScore)
	}
	return earned
}

// History returns the user's exam records, oldest first.
func (s *ExamService) History(email string) ([]model.ExamRecord, error) {
	user, err := s.findUser(email)
	if err != nil {
		return nil, err
	}
	if user.Exams == nil {
		return []model.ExamRecord{}, nil
	}
	return user.Exams, nil
}

// Badges returns the user's badge set.
func (s *ExamService) Badges(email string) ([]model.Badge, error) {
	user, err := s.findUser(email)
	if err != nil {
		return nil, err
	}
	if user.Badges == nil {
		return []model.Badge{}, nil
	}
	return user.Badges, nil
}

// AwardBadges adds client-supplied badges, skipping ids the user
// already owns. The badge set only ever grows.
func (s *ExamService) AwardBadges(email string, badges []model.Badge) ([]model.Badge, error) {
	var result []model.Badge
	err := s.userRepo.UpdateLocked(email, func(u *model.User) error {
		for _, b := range badges {
			if !u.HasBadge(b.ID) {
				u.Badges = append(u.Badges, b)
			}
		}
		result = u.Badges
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Profile returns the user with the rolling statistics.
func (s *ExamService) Profile(email string) (*model.User, error) {
	return s.findUser(email)
}

func (s *ExamService) findUser(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
