package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ticketSubject marks tokens that carry a deal seed.
const ticketSubject = "deal"

var ErrInvalidTicket = errors.New("invalid deal ticket")

// TicketService signs deal seeds so a deal can be shared and replayed.
type TicketService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTicketService(secret, issuer string, ttl time.Duration) *TicketService {
	return &TicketService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed ticket for seed.
func (s *TicketService) Issue(seed uint64) (string, error) {
	if s == nil {
		return "", fmt.Errorf("ticket service is nil")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("ticket config is incomplete")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  ticketSubject,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
		"seed": strconv.FormatUint(seed, 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature, issuer and expiry of ticket and returns the
// seed it carries.
func (s *TicketService) Verify(ticket string) (uint64, error) {
	if s == nil || s.secret == "" {
		return 0, fmt.Errorf("ticket config is incomplete")
	}

	token, err := jwt.Parse(ticket, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidTicket
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return 0, fmt.Errorf("%w: wrong issuer", ErrInvalidTicket)
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return 0, fmt.Errorf("%w: expired", ErrInvalidTicket)
	}
	if sub, _ := claims["sub"].(string); sub != ticketSubject {
		return 0, fmt.Errorf("%w: wrong subject", ErrInvalidTicket)
	}
	raw, _ := claims["seed"].(string)
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad seed", ErrInvalidTicket)
	}
	return seed, nil
}
