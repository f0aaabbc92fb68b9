package service

import (
	"errors"
	"ritual_tracker_backend/internal/config"
	"ritual_tracker_backend/internal/model"
	"ritual_tracker_backend/internal/repository"
	"ritual_tracker_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if user.StudentNo != "" {
		_, err := s.UserRepo.FindByStudentNo(user.StudentNo)
		if err == nil {
			return util.ErrStudentNoTaken
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

// Login 学生登录。identifier 可以是邮箱或学号；不含 @ 时按学号
// 补全默认域再按邮箱查找
func (s *AuthService) Login(identifier, password string) (string, error) {
	user, err := s.findByIdentifier(identifier, util.StudentEmailDomain)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	return s.issueToken(user, password)
}

// AdminLogin 管理员登录，非管理员账号一律拒绝
func (s *AuthService) AdminLogin(identifier, password string) (string, error) {
	user, err := s.findByIdentifier(identifier, util.AdminEmailDomain)
	if err != nil || user.Role != model.Admin {
		return "", errors.New("invalid credentials")
	}

	return s.issueToken(user, password)
}

func (s *AuthService) findByIdentifier(identifier, defaultDomain string) (*model.User, error) {
	email := identifier
	if !strings.Contains(identifier, "@") {
		if user, err := s.UserRepo.FindByStudentNo(identifier); err == nil {
			return user, nil
		}
		email = identifier + defaultDomain
	}
	return s.UserRepo.FindByEmail(email)
}

func (s *AuthService) issueToken(user *model.User, password string) (string, error) {
	if user.Disabled {
		return "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	s.UserRepo.UpdateLastLogin(user.ID)

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
