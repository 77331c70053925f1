package embedded

import (
	"context"
	"io"
	"math/big"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PreparedStatement is a statement prepared by the engine. Parameters are
// bound as SQL literals and Render writes the call that executes the
// statement with them. It is owned by a single goroutine.
type PreparedStatement struct {
	conn    *Connection
	dialect Dialect
	id      int
	query   string

	slots  []slotType
	meta   []SlotMeta
	params []int // slot index of each parameter
	cols   []int // slot index of each result column
	values []string
	set    []bool
}

func newPreparedStatement(conn *Connection, query string, p *Prepared, d Dialect) *PreparedStatement {
	ps := &PreparedStatement{
		conn:    conn,
		dialect: d,
		id:      p.ID,
		query:   query,
		meta:    p.Slots,
		slots:   make([]slotType, len(p.Slots)),
	}
	for i, m := range p.Slots {
		ps.slots[i] = newSlotType(m)
		if m.Column == "" {
			ps.params = append(ps.params, i)
		} else {
			ps.cols = append(ps.cols, i)
		}
	}
	ps.values = make([]string, len(ps.params))
	ps.set = make([]bool, len(ps.params))
	return ps
}

// ID returns the engine identifier, 0 once the statement is closed.
func (ps *PreparedStatement) ID() int { return ps.id }

// SQL returns the prepared query text.
func (ps *PreparedStatement) SQL() string { return ps.query }

// IsClosed reports whether the statement was released.
func (ps *PreparedStatement) IsClosed() bool { return ps.id == 0 }

// ParameterCount returns the number of parameters.
func (ps *PreparedStatement) ParameterCount() int { return len(ps.params) }

// ParameterMetadata describes the parameters.
func (ps *PreparedStatement) ParameterMetadata() ParameterMetadata {
	params := make([]ParameterInfo, len(ps.params))
	for i, s := range ps.params {
		params[i] = ParameterInfo{
			Type:     ps.slots[s].typ,
			TypeName: ps.meta[s].TypeName,
			Digits:   ps.meta[s].Digits,
			Scale:    ps.meta[s].Scale,
		}
	}
	return ParameterMetadata{params: params}
}

// ResultMetadata describes the columns the statement produces, if any.
func (ps *PreparedStatement) ResultMetadata() ResultMetadata {
	cols := make([]ColumnInfo, len(ps.cols))
	for i, s := range ps.cols {
		m := ps.meta[s]
		cols[i] = ColumnInfo{
			Name:     m.Column,
			Type:     ps.slots[s].typ,
			TypeName: m.TypeName,
			Digits:   m.Digits,
			Scale:    m.Scale,
			Schema:   m.Schema,
			Table:    m.Table,
		}
	}
	return ResultMetadata{columns: cols}
}

func (ps *PreparedStatement) slot(idx int) (slotType, error) {
	if idx < 1 || idx > len(ps.params) {
		return slotType{}, newErrorf(ParameterNotFound, "no such parameter with index: %d", idx)
	}
	return ps.slots[ps.params[idx-1]], nil
}

func (ps *PreparedStatement) setValue(idx int, lit string) error {
	if _, err := ps.slot(idx); err != nil {
		return err
	}
	ps.values[idx-1] = lit
	ps.set[idx-1] = true
	return nil
}

// BindNull sets parameter idx to NULL.
func (ps *PreparedStatement) BindNull(idx int) error {
	return ps.setValue(idx, nullLiteral)
}

// BindBool sets parameter idx to v.
func (ps *PreparedStatement) BindBool(idx int, v bool) error {
	return ps.setValue(idx, boolLiteral(v))
}

// BindInt8 sets parameter idx to v.
func (ps *PreparedStatement) BindInt8(idx int, v int8) error {
	return ps.setValue(idx, intLiteral(int64(v)))
}

// BindInt16 sets parameter idx to v.
func (ps *PreparedStatement) BindInt16(idx int, v int16) error {
	return ps.setValue(idx, intLiteral(int64(v)))
}

// BindInt32 sets parameter idx to v.
func (ps *PreparedStatement) BindInt32(idx int, v int32) error {
	return ps.setValue(idx, intLiteral(int64(v)))
}

// BindInt64 sets parameter idx to v.
func (ps *PreparedStatement) BindInt64(idx int, v int64) error {
	return ps.setValue(idx, intLiteral(v))
}

// BindBigInt sets parameter idx to x. A nil x binds NULL.
func (ps *PreparedStatement) BindBigInt(idx int, x *big.Int) error {
	if x == nil {
		return ps.BindNull(idx)
	}
	return ps.setValue(idx, x.String())
}

// BindFloat32 sets parameter idx to v. NaN and infinities are rejected.
func (ps *PreparedStatement) BindFloat32(idx int, v float32) error {
	if _, err := ps.slot(idx); err != nil {
		return err
	}
	lit, err := floatLiteral(float64(v), 32)
	if err != nil {
		return err
	}
	return ps.setValue(idx, lit)
}

// BindFloat64 sets parameter idx to v. NaN and infinities are rejected.
func (ps *PreparedStatement) BindFloat64(idx int, v float64) error {
	if _, err := ps.slot(idx); err != nil {
		return err
	}
	lit, err := floatLiteral(v, 64)
	if err != nil {
		return err
	}
	return ps.setValue(idx, lit)
}

// BindDecimal sets parameter idx to d rounded half-up to the declared scale
// of the parameter. It fails with ErrPrecisionExceeded when the rounded value
// has more digits than the declared precision.
func (ps *PreparedStatement) BindDecimal(idx int, d decimal.Decimal) error {
	st, err := ps.slot(idx)
	if err != nil {
		return err
	}
	lit, err := decimalLiteral(d, st.digits, st.scale)
	if err != nil {
		return err
	}
	return ps.setValue(idx, lit)
}

// BindString sets parameter idx to s, validated against the declared type of
// the parameter.
func (ps *PreparedStatement) BindString(idx int, s string) error {
	st, err := ps.slot(idx)
	if err != nil {
		return err
	}
	lit, err := stringLiteral(ps.dialect, st, s)
	if err != nil {
		return err
	}
	return ps.setValue(idx, lit)
}

// BindBytes sets parameter idx to a binary literal of b. A nil b binds NULL.
func (ps *PreparedStatement) BindBytes(idx int, b []byte) error {
	if b == nil {
		return ps.BindNull(idx)
	}
	return ps.setValue(idx, ps.dialect.BlobLiteral(b))
}

// BindBlob reads r to the end and binds its content as binary data.
func (ps *PreparedStatement) BindBlob(idx int, r io.Reader) error {
	if r == nil {
		return ps.BindNull(idx)
	}
	if _, err := ps.slot(idx); err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return &Error{Type: InvalidLiteral, Message: "reading blob parameter " + strconv.Itoa(idx), Err: err}
	}
	if b == nil {
		b = []byte{}
	}
	return ps.BindBytes(idx, b)
}

// BindClob reads r to the end and binds its content as a string.
func (ps *PreparedStatement) BindClob(idx int, r io.Reader) error {
	if r == nil {
		return ps.BindNull(idx)
	}
	if _, err := ps.slot(idx); err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return &Error{Type: InvalidLiteral, Message: "reading clob parameter " + strconv.Itoa(idx), Err: err}
	}
	return ps.BindString(idx, string(b))
}

// BindDate sets parameter idx to the date of t, read in loc when loc is not nil.
func (ps *PreparedStatement) BindDate(idx int, t time.Time, loc *time.Location) error {
	return ps.setValue(idx, dateLiteral(ps.dialect, t, loc))
}

// BindTime sets parameter idx to the clock of t. With loc the clock is read
// in that location. Timezone-aware parameters carry the offset of t.
func (ps *PreparedStatement) BindTime(idx int, t time.Time, loc *time.Location) error {
	st, err := ps.slot(idx)
	if err != nil {
		return err
	}
	return ps.setValue(idx, timeLiteral(ps.dialect, st, t, loc))
}

// BindTimestamp sets parameter idx to t, following the rules of BindTime.
func (ps *PreparedStatement) BindTimestamp(idx int, t time.Time, loc *time.Location) error {
	st, err := ps.slot(idx)
	if err != nil {
		return err
	}
	return ps.setValue(idx, timestampLiteral(ps.dialect, st, t, loc))
}

// BindURL sets parameter idx to a url literal. A nil u binds NULL.
func (ps *PreparedStatement) BindURL(idx int, u *url.URL) error {
	if u == nil {
		return ps.BindNull(idx)
	}
	if _, err := ps.slot(idx); err != nil {
		return err
	}
	if err := validURL(u.String()); err != nil {
		return &Error{Type: InvalidLiteral, Message: "invalid url parameter " + strconv.Itoa(idx), Err: err}
	}
	return ps.setValue(idx, ps.dialect.TypedLiteral(TypeURL, ps.dialect.QuoteString(u.String())))
}

// BindUUID sets parameter idx to id, written as its canonical text.
func (ps *PreparedStatement) BindUUID(idx int, id uuid.UUID) error {
	return ps.BindString(idx, id.String())
}

// BindObject binds v converted to the target type. The conversion is chosen
// by the kind of v, then by target; combinations without a meaningful
// conversion fail with ErrUnsupportedConversion.
func (ps *PreparedStatement) BindObject(idx int, v Value, target Type) error {
	return ps.BindObjectScale(idx, v, target, 0)
}

// BindObjectScale is BindObject with the scale used when a decimal is
// converted to an integer.
func (ps *PreparedStatement) BindObjectScale(idx int, v Value, target Type, scale int) error {
	if _, err := ps.slot(idx); err != nil {
		return err
	}
	fn, ok := bindTable[v.kind]
	if !ok {
		return newErrorf(UnsupportedConversion, "no support for binding values of kind %s", v.kind)
	}
	return fn(ps, idx, v, target, scale)
}

// BindValue binds v converted to the declared type of parameter idx.
func (ps *PreparedStatement) BindValue(idx int, v Value) error {
	st, err := ps.slot(idx)
	if err != nil {
		return err
	}
	return ps.BindObjectScale(idx, v, st.typ, st.scale)
}

// Clear unsets every parameter.
func (ps *PreparedStatement) Clear() {
	for i := range ps.values {
		ps.values[i] = ""
		ps.set[i] = false
	}
}

// Render returns the statement that executes the prepared statement with
// the bound parameters. It fails with ErrMissingParameter naming the first
// parameter that was not bound.
func (ps *PreparedStatement) Render() (string, error) {
	if ps.id == 0 {
		return "", NewError(StatementClosed, "prepared statement is closed")
	}
	for i, ok := range ps.set {
		if !ok {
			return "", newErrorf(MissingParameter, "cannot execute, parameter %d is missing", i+1)
		}
	}
	return ps.dialect.CallText(ps.id, ps.values), nil
}

// Execute runs the statement with the bound parameters.
func (ps *PreparedStatement) Execute() (*ExecResult, error) {
	return ps.ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a context.
func (ps *PreparedStatement) ExecuteContext(ctx context.Context) (*ExecResult, error) {
	text, err := ps.Render()
	if err != nil {
		return nil, err
	}
	return ps.conn.execute(ctx, text, "prepared")
}

// ExecuteQuery runs the statement and returns its result set. It fails with
// ErrUnexpectedResult if the statement did not produce rows.
func (ps *PreparedStatement) ExecuteQuery() (*ResultSet, error) {
	return ps.ExecuteQueryContext(context.Background())
}

// ExecuteQueryContext is ExecuteQuery with a context.
func (ps *PreparedStatement) ExecuteQueryContext(ctx context.Context) (*ResultSet, error) {
	res, err := ps.ExecuteContext(ctx)
	if err != nil {
		return nil, err
	}
	return res.query()
}

// ExecuteUpdate runs the statement and returns its update count. It fails
// with ErrUnexpectedResult if the statement produced rows.
func (ps *PreparedStatement) ExecuteUpdate() (int64, error) {
	return ps.ExecuteUpdateContext(context.Background())
}

// ExecuteUpdateContext is ExecuteUpdate with a context.
func (ps *PreparedStatement) ExecuteUpdateContext(ctx context.Context) (int64, error) {
	res, err := ps.ExecuteContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.update()
}

// ExecuteAndIgnore runs the statement and discards whatever it produced.
func (ps *PreparedStatement) ExecuteAndIgnore() error {
	res, err := ps.ExecuteContext(context.Background())
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// Close releases the statement in the engine. Closing a released statement
// does nothing.
func (ps *PreparedStatement) Close() error {
	if ps.id == 0 {
		return nil
	}
	id := ps.id
	ps.id = 0
	ps.conn.releaseStatement(ps, id)
	return nil
}
