package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeLogDrain(t *testing.T) {
	log := NewNoticeLog(3)
	assert.Equal(t, []Notice{}, log.Drain())

	for i := 0; i < 5; i++ {
		log.Notify(Notice{Op: "op", Level: LevelWarning, Message: fmt.Sprint(i)})
	}
	assert.Equal(t, 3, log.Len())

	got := log.Drain()
	if assert.Len(t, got, 3) {
		assert.Equal(t, "2", got[0].Message)
		assert.Equal(t, "4", got[2].Message)
		assert.False(t, got[0].At.IsZero())
	}
	assert.Zero(t, log.Len())
}
