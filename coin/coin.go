package coin

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var (
	// MaxAmount is the largest amount we accept, 2^127 - 1.
	MaxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	// MinAmount is the lowest amount we accept, -2^127.
	MinAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Zero returns a new zero amount.
func Zero() *big.Int {
	return new(big.Int)
}

// InRange returns an error if the amount cannot be represented as a signed
// 128 bit integer.
func InRange(a *big.Int) error {
	if a == nil {
		return errors.Wrap(errors.ErrInvalidAmount, "nil amount")
	}
	if a.Cmp(MaxAmount) > 0 || a.Cmp(MinAmount) < 0 {
		return errors.Wrapf(errors.ErrOverflow, "amount %s out of range", a)
	}
	return nil
}

// ValidatePositive returns ErrInvalidAmount unless a is a representable value
// greater than zero.
func ValidatePositive(a *big.Int) error {
	if a == nil {
		return errors.Wrap(errors.ErrInvalidAmount, "nil amount")
	}
	if a.Sign() <= 0 {
		return errors.Wrapf(errors.ErrInvalidAmount, "amount %s must be positive", a)
	}
	if err := InRange(a); err != nil {
		return errors.Wrap(errors.ErrInvalidAmount, err.Error())
	}
	return nil
}

// IsPositive returns true for amounts greater than zero.
func IsPositive(a *big.Int) bool {
	return a != nil && a.Sign() > 0
}

// IsGTE returns true if a is greater or equal to b. Nil is treated as zero.
func IsGTE(a, b *big.Int) bool {
	return orZero(a).Cmp(orZero(b)) >= 0
}

// Add returns the sum of both amounts. It fails with ErrOverflow if the result
// is out of range.
func Add(a, b *big.Int) (*big.Int, error) {
	res := new(big.Int).Add(orZero(a), orZero(b))
	if err := InRange(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Sub returns a - b. It fails with ErrOverflow if the result is out of range.
func Sub(a, b *big.Int) (*big.Int, error) {
	res := new(big.Int).Sub(orZero(a), orZero(b))
	if err := InRange(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Sum adds all amounts together. The total and every intermediate sum must
// stay in range.
func Sum(amounts []*big.Int) (*big.Int, error) {
	total := Zero()
	for _, a := range amounts {
		var err error
		if total, err = Add(total, a); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Clone returns a copy of the amount. Nil is copied as zero.
func Clone(a *big.Int) *big.Int {
	return new(big.Int).Set(orZero(a))
}

// Encode returns the decimal representation used for storage.
func Encode(a *big.Int) string {
	return orZero(a).String()
}

// Decode parses an amount from its decimal representation. An empty string
// decodes to zero.
func Decode(s string) (*big.Int, error) {
	if s == "" {
		return Zero(), nil
	}
	a, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(errors.ErrEncoding, "invalid amount %q", s)
	}
	if err := InRange(a); err != nil {
		return nil, err
	}
	return a, nil
}

func orZero(a *big.Int) *big.Int {
	if a == nil {
		return Zero()
	}
	return a
}

//-------------- Coin -----------------------

// Coin is an amount of a given token. The token is identified by the address
// of its ledger.
type Coin struct {
	Token  custody.Address
	Amount *big.Int
}

// NewCoin creates a new coin object
func NewCoin(token custody.Address, amount int64) Coin {
	return Coin{
		Token:  token,
		Amount: big.NewInt(amount),
	}
}

// Validate returns an error if the coin is not a valid non negative amount
// of a valid token.
func (c Coin) Validate() error {
	if err := c.Token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	if err := InRange(c.Amount); err != nil {
		return err
	}
	if c.Amount.Sign() < 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "negative coin")
	}
	return nil
}

// Equals returns true if both coins are of the same token and amount.
func (c Coin) Equals(o Coin) bool {
	return c.Token.Equals(o.Token) && orZero(c.Amount).Cmp(orZero(o.Amount)) == 0
}

func (c Coin) String() string {
	return fmt.Sprintf("%s %s", Encode(c.Amount), c.Token)
}

type jsonCoin struct {
	Token  custody.Address `json:"token"`
	Amount string          `json:"amount"`
}

// MarshalJSON encodes the amount as a decimal string so that values beyond
// the float64 precision survive.
func (c Coin) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonCoin{Token: c.Token, Amount: Encode(c.Amount)})
}

// UnmarshalJSON is the reverse of MarshalJSON.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var jc jsonCoin
	if err := json.Unmarshal(raw, &jc); err != nil {
		return errors.Wrap(errors.ErrEncoding, err.Error())
	}
	amount, err := Decode(jc.Amount)
	if err != nil {
		return err
	}
	*c = Coin{Token: jc.Token, Amount: amount}
	return nil
}
