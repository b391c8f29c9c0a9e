package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/models"
)

// TokenTTL is the validity window of an issued credential.
const TokenTTL = 7 * 24 * time.Hour

// bcryptCost matches the hash cost used since launch; changing it only
// affects newly created hashes.
const bcryptCost = 10

// Claims is the signed credential payload. The user id is re-resolved to a
// live record on every request, so a deleted user loses access immediately
// regardless of token expiry.
type Claims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	College string `json:"college"`
	Campus  string `json:"campus,omitempty"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users     *mongo.Collection
	jwtSecret []byte
}

func NewAuthService(users *mongo.Collection, jwtSecret string) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(jwtSecret)}
}

// SignupInput is the validated signup payload.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,min=8"`
	College  string `json:"college" validate:"required,min=2"`
	Campus   string `json:"campus"`
}

// LoginInput is the validated login payload. College (and campus, when the
// account has one) is part of the login ceremony: a wrong-portal attempt is
// rejected even with the correct password.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	College  string `json:"college" validate:"required,min=2"`
	Campus   string `json:"campus"`
}

// Signup creates a user and issues a credential. The email is stored
// lowercase so the unique index enforces case-insensitive uniqueness.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	count, err := s.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return "", nil, apperr.Internal("failed to create account", err)
	}
	if count > 0 {
		return "", nil, apperr.Conflict("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", nil, apperr.Internal("failed to create account", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		College:      in.College,
		Campus:       in.Campus,
		Reputation:   0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", nil, apperr.Conflict("User already exists")
		}
		return "", nil, apperr.Internal("failed to create account", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, apperr.Internal("failed to create account", err)
	}
	return token, user, nil
}

// Login authenticates a user and issues a credential.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, apperr.Authentication("Invalid credentials")
		}
		return "", nil, apperr.Internal("failed to login", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return "", nil, apperr.Authentication("Invalid credentials")
	}

	if err := checkTenancy(&user, in.College, in.Campus); err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return "", nil, apperr.Internal("failed to login", err)
	}
	return token, &user, nil
}

// checkTenancy verifies the supplied college, and campus when both sides
// have one, against the stored account. Case-insensitive.
func checkTenancy(user *models.User, college, campus string) error {
	if !strings.EqualFold(user.College, college) {
		return apperr.Authorization("College mismatch")
	}
	if campus != "" && user.Campus != "" && !strings.EqualFold(user.Campus, campus) {
		return apperr.Authorization("Campus mismatch")
	}
	return nil
}

// IssueToken signs a 7-day credential for the user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  user.ID.Hex(),
		Email:   user.Email,
		College: user.College,
		Campus:  user.Campus,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken verifies signature and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Authentication("Invalid token")
	}
	return claims, nil
}

// UserByID resolves a token's user id to a live record.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Authentication("Invalid token")
	}
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Authentication("Account no longer exists")
		}
		return nil, apperr.Internal("failed to resolve user", err)
	}
	return &user, nil
}
