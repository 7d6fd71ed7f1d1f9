//go:generate mockgen -source=../message_sink.go      -destination=./mock_message_sink.go      -package=mocks
//go:generate mockgen -source=../session_inspector.go -destination=./mock_session_inspector.go -package=mocks
//go:generate mockgen -source=../recent_messages.go   -destination=./mock_recent_messages.go   -package=mocks

package mocks
