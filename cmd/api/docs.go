package main

// @title           Restaurante Pedidos API
// @version         1.0
// @description     API de registro de pedidos, promoções e contas de mesa

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
