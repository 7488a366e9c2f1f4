package apitest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"

	"kusina/internal/models"
)

// Server is the in-process backend. Wrap Router() in httptest.NewServer to
// talk to it over real HTTP.
type Server struct {
	db     *gorm.DB
	engine *gin.Engine
	jwtKey []byte
	hub    *statsHub
}

// NewServer builds a seeded backend.
func NewServer() (*Server, error) {
	gin.SetMode(gin.TestMode)

	db, err := openStore()
	if err != nil {
		return nil, err
	}
	if err := seed(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Server{
		db:     db,
		engine: gin.New(),
		jwtKey: []byte("apitest-secret"),
		hub:    newStatsHub(),
	}
	s.setupRoutes()
	return s, nil
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes() {
	r := s.engine

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/login", s.handleLogin)
	r.POST("/auth/register", s.handleRegister)

	cart := r.Group("/api/cart")
	{
		cart.GET("/:user_id", s.handleCartItems)
		cart.POST("/add", s.handleCartAdd)
		cart.PUT("/update", s.handleCartUpdate)
		cart.DELETE("/remove/:user_id/:menu_id", s.handleCartRemove)
		cart.DELETE("/clear/:user_id", s.handleCartClear)
	}

	orders := r.Group("/api/orders")
	{
		orders.POST("", s.handlePlaceOrder)
		orders.GET("/customer/:id", s.handleOrdersByCustomer)
		orders.GET("/:id", s.handleOrderByID)
	}

	r.GET("/menu", s.handleMenu)
	r.POST("/menu", s.handleMenuCreate)
	r.PUT("/menu/:id", s.handleMenuUpdate)
	r.DELETE("/menu/:id", s.handleMenuDelete)

	r.GET("/landing/stats", s.handleLandingStats)
	r.GET("/landing/featured", s.handleFeatured)
	r.GET("/ws/landing", s.hub.handleSubscribe)

	rider := r.Group("/rider")
	{
		rider.GET("/:id", s.handleRider)
		rider.GET("/:id/orders", s.handleRiderOrders)
		rider.GET("/:id/stats", s.handleRiderStats)
		rider.PATCH("/:id/orders/:order_id/accept", s.handleRiderAccept)
		rider.PATCH("/:id/orders/:order_id/complete", s.handleRiderComplete)
	}

	staff := r.Group("/staff")
	staff.Use(s.requireRole("staff", "admin"))
	{
		staff.GET("/dashboard/stats", s.handleStaffStats)
		staff.GET("/dashboard/orders", s.handleStaffOrders)
		staff.PATCH("/orders/:id/status", s.handleStaffUpdateStatus)
		staff.PATCH("/orders/:id/assign", s.handleStaffAssign)
	}
}

// ----- auth -----

type claims struct {
	Role   string `json:"role"`
	UserID uint   `json:"user_id"`
	jwt.StandardClaims
}

func (s *Server) mintToken(u *userRecord) (string, error) {
	c := &claims{
		Role:   u.Role,
		UserID: u.ID,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.Username,
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.jwtKey)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	var user userRecord
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	token, err := s.mintToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to mint token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role, "id": user.ID})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	var existing userRecord
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to hash password"})
		return
	}
	user := userRecord{
		Username: req.Username,
		Password: string(hash),
		Role:     "customer",
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
		return
	}

	s.broadcastLandingStats()
	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

// requireRole is bearer-token auth for the staff surface. The client-side
// guard is convenience; this is where authorization actually happens.
func (s *Server) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		header := c.GetHeader("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		parsed := &claims{}
		token, err := jwt.ParseWithClaims(header[len(prefix):], parsed, func(*jwt.Token) (interface{}, error) {
			return s.jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		for _, role := range roles {
			if parsed.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
	}
}

// ----- cart -----

func (s *Server) handleCartItems(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	var rows []cartRecord
	if err := s.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load cart"})
		return
	}

	items := make([]models.CartItem, 0, len(rows))
	for _, row := range rows {
		var menu menuRecord
		s.db.First(&menu, row.MenuID)
		items = append(items, models.CartItem{
			MenuID:              int64(row.MenuID),
			Quantity:            row.Quantity,
			Price:               row.Price,
			Name:                menu.Name,
			Category:            menu.Category,
			SpecialInstructions: row.SpecialInstructions,
		})
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleCartAdd(c *gin.Context) {
	var req struct {
		UserID   uint `json:"user_id"`
		MenuID   uint `json:"menu_id"`
		Quantity int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	var menu menuRecord
	if err := s.db.First(&menu, req.MenuID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "menu item not found"})
		return
	}

	// One row per (user, menu): a repeated add increments the quantity.
	var existing cartRecord
	err := s.db.Where("user_id = ? AND menu_id = ?", req.UserID, req.MenuID).First(&existing).Error
	if err == nil {
		existing.Quantity += req.Quantity
		if err := s.db.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "quantity updated"})
		return
	}

	row := cartRecord{
		UserID:   req.UserID,
		MenuID:   req.MenuID,
		Quantity: req.Quantity,
		Price:    menu.Price,
	}
	if err := s.db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to add to cart"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "item added"})
}

func (s *Server) handleCartUpdate(c *gin.Context) {
	var req struct {
		UserID              uint   `json:"user_id"`
		MenuID              uint   `json:"menu_id"`
		Quantity            int    `json:"quantity"`
		SpecialInstructions string `json:"special_instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	var row cartRecord
	if err := s.db.Where("user_id = ? AND menu_id = ?", req.UserID, req.MenuID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
		return
	}
	row.Quantity = req.Quantity
	row.SpecialInstructions = req.SpecialInstructions
	if err := s.db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (s *Server) handleCartRemove(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	menuID, ok := paramID(c, "menu_id")
	if !ok {
		return
	}
	if err := s.db.Where("user_id = ? AND menu_id = ?", userID, menuID).Delete(&cartRecord{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to remove item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (s *Server) handleCartClear(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	if err := s.db.Where("user_id = ?", userID).Delete(&cartRecord{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

// ----- orders -----

func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}
	if req.CustomerID == 0 || len(req.Items) == 0 || req.DeliveryAddress.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "customer, items, and delivery address are required"})
		return
	}

	order := orderRecord{
		CustomerID:           uint(req.CustomerID),
		Status:               string(models.OrderStatusPending),
		PaymentMethod:        string(req.PaymentMethod),
		TotalAmount:          req.TotalAmount,
		FirstName:            req.DeliveryAddress.FirstName,
		LastName:             req.DeliveryAddress.LastName,
		Phone:                req.DeliveryAddress.Phone,
		Email:                req.DeliveryAddress.Email,
		Address:              req.DeliveryAddress.Address,
		DeliveryInstructions: req.DeliveryAddress.DeliveryInstructions,
		Latitude:             req.DeliveryAddress.Latitude,
		Longitude:            req.DeliveryAddress.Longitude,
	}
	if err := s.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order"})
		return
	}
	for _, line := range req.Items {
		item := orderItemRecord{
			OrderID:             order.ID,
			MenuID:              uint(line.MenuID),
			Quantity:            line.Quantity,
			Price:               line.Price,
			SpecialInstructions: line.SpecialInstructions,
		}
		if err := s.db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order"})
			return
		}
	}

	s.broadcastLandingStats()
	c.JSON(http.StatusCreated, gin.H{"order_id": order.ID})
}

func (s *Server) handleOrdersByCustomer(c *gin.Context) {
	customerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var rows []orderRecord
	if err := s.db.Where("customer_id = ?", customerID).Order("id desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load orders"})
		return
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, s.toOrder(row))
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleOrderByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var row orderRecord
	if err := s.db.First(&row, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	c.JSON(http.StatusOK, s.toOrder(row))
}

func (s *Server) toOrder(row orderRecord) models.Order {
	var items []orderItemRecord
	s.db.Where("order_id = ?", row.ID).Find(&items)

	lines := make([]models.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.OrderLine{
			MenuID:              int64(it.MenuID),
			Quantity:            it.Quantity,
			Price:               it.Price,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	order := models.Order{
		ID:            int64(row.ID),
		CustomerID:    int64(row.CustomerID),
		Items:         lines,
		PaymentMethod: models.PaymentMethod(row.PaymentMethod),
		DeliveryAddress: models.DeliveryAddress{
			FirstName:            row.FirstName,
			LastName:             row.LastName,
			Phone:                row.Phone,
			Email:                row.Email,
			Address:              row.Address,
			DeliveryInstructions: row.DeliveryInstructions,
			Latitude:             row.Latitude,
			Longitude:            row.Longitude,
		},
		TotalAmount: row.TotalAmount,
		Status:      models.OrderStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
	if row.RiderID != nil {
		riderID := int64(*row.RiderID)
		order.RiderID = &riderID
	}
	return order
}

// paramID parses a numeric path parameter, responding 400 on garbage.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
