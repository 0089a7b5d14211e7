package orders

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayPrefix returns the shared prefix of all order numbers issued on the
// given day, e.g. "KNV-240901-".
func DayPrefix(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, date.Format("060102"))
}

// Number formats a canonical order number: PREFIX-YYMMDD-NNN with a
// zero-padded daily sequence.
func Number(prefix string, date time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", DayPrefix(prefix, date), seq)
}

// NextSequence derives the next daily sequence from the highest order
// number already issued today. Empty or unparseable input starts at 1.
func NextSequence(lastNumber string) int {
	idx := strings.LastIndex(lastNumber, "-")
	if idx < 0 {
		return 1
	}
	seq, err := strconv.Atoi(lastNumber[idx+1:])
	if err != nil || seq < 1 {
		return 1
	}
	return seq + 1
}
