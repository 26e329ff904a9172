package utils

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestCheckHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	up := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	status := CheckHealth(context.Background(), []*redis.Client{up, down}, nil)

	assert.False(t, status.Mongo)
	assert.Equal(t, []bool{true, false}, status.Redis)
	assert.Equal(t, status, GetHealthStatus())
}
