package server_test

import (
	"testing"

	"scorehub/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ListenAddr(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Default", "8080", ":8080"},
		{"Custom", "3000", ":3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.ListenAddr())
		})
	}
}
