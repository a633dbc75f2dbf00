package purchase

import "github.com/gin-gonic/gin"

const ctxRecordKey = "purchase_record"

// SetRecord attaches the purchase that proved entitlement for this request.
func SetRecord(c *gin.Context, rec *Record) {
	c.Set(ctxRecordKey, rec)
}

// RecordFrom returns the attached purchase. Free items carry none.
func RecordFrom(c *gin.Context) (*Record, bool) {
	v, ok := c.Get(ctxRecordKey)
	if !ok {
		return nil, false
	}
	rec, ok := v.(*Record)
	return rec, ok && rec != nil
}
