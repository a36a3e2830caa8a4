package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Gateway --dir ../domain/football --output domain/football --outpkg footballmock --filename gateway_mock.go
