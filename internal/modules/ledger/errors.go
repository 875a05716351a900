package ledger

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrDuplicatePayment = errors.New("ledger: payment already recorded")
	ErrNotFound         = errors.New("ledger: order not found")
)

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
