package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func allPrescriptions(t *testing.T, s *Store) []Prescription {
	t.Helper()
	var rows []Prescription
	require.NoError(t, s.db.Select(&rows, "SELECT user_id, symptoms, diagnosis FROM prescriptions"))
	return rows
}

func TestAddPrescription(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := Prescription{UserID: "42", Symptoms: "cough, fever", Diagnosis: "flu"}
	require.NoError(t, s.AddPrescription(ctx, p))

	assert.Equal(t, []Prescription{p}, allPrescriptions(t, s))
}

func TestAddPrescriptionNoUniqueness(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := Prescription{UserID: "7", Symptoms: "rash", Diagnosis: "allergy"}
	require.NoError(t, s.AddPrescription(ctx, p))
	require.NoError(t, s.AddPrescription(ctx, p))
	require.NoError(t, s.AddPrescription(ctx, Prescription{}))

	assert.Len(t, allPrescriptions(t, s), 3)
}

func TestAddPrescriptionKeepsValuesVerbatim(t *testing.T) {
	s := setupTestStore(t)

	p := Prescription{UserID: "x'); DROP TABLE prescriptions; --", Symptoms: "  ünïcode \n", Diagnosis: `"quoted"`}
	require.NoError(t, s.AddPrescription(context.Background(), p))

	assert.Equal(t, []Prescription{p}, allPrescriptions(t, s))
}

func TestAddPrescriptionConcurrentShareConnection(t *testing.T) {
	s := setupTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AddPrescription(context.Background(), Prescription{UserID: "u", Symptoms: "s", Diagnosis: "d"}))
		}()
	}
	wg.Wait()

	assert.Len(t, allPrescriptions(t, s), 20)
}

func TestAddPrescriptionAfterClose(t *testing.T) {
	s, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.AddPrescription(context.Background(), Prescription{UserID: "1"})
	assert.Error(t, err)
}

func TestUnavailableStore(t *testing.T) {
	connErr := errors.New("dial tcp 127.0.0.1:3306: connection refused")
	s := Unavailable(connErr)

	err := s.AddPrescription(context.Background(), Prescription{UserID: "1", Symptoms: "s", Diagnosis: "d"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnavailable)
	assert.NoError(t, s.Close())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
