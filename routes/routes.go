package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-storefront/controllers"
	"go-storefront/middleware"
)

// Controllers groups the page handlers the router serves
type Controllers struct {
	User    *controllers.UserController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Seller  *controllers.SellerController
}

// RegisterRoutes sets up all the routes for the application. limiter throttles
// the login and register submits; it may be nil.
func RegisterRoutes(router *mux.Router, c Controllers, limiter *middleware.RateLimiter) {
	guard := func(g middleware.Gate, h http.HandlerFunc) http.Handler {
		return middleware.Guard(g)(h)
	}
	throttle := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Limit(h)
	}

	// Public routes
	router.HandleFunc("/", c.User.Home).Methods("GET")
	router.HandleFunc("/login", c.User.LoginPage).Methods("GET")
	router.Handle("/login", throttle(c.User.Login)).Methods("POST")
	router.HandleFunc("/register", c.User.RegisterPage).Methods("GET")
	router.Handle("/register", throttle(c.User.Register)).Methods("POST")
	router.Handle("/logout", guard(middleware.GateAuthenticated, c.User.Logout)).Methods("POST")

	// Catalog routes, closed to sellers
	router.Handle("/products", guard(middleware.GateBlockSeller, c.Product.GetProducts)).Methods("GET")
	router.Handle("/products/{id:[0-9]+}", guard(middleware.GateBlockSeller, c.Product.GetProductByID)).Methods("GET")
	router.Handle("/products/{id:[0-9]+}/cart", guard(middleware.GateBlockSeller, c.Product.AddToCart)).Methods("POST")

	// Cart Routes
	router.Handle("/cart", guard(middleware.GateBuyerOnly, c.Cart.GetCart)).Methods("GET")
	router.Handle("/cart/items/{itemId:[0-9]+}", guard(middleware.GateBuyerOnly, c.Cart.UpdateQuantity)).Methods("POST")
	router.Handle("/cart/items/{itemId:[0-9]+}/remove", guard(middleware.GateBuyerOnly, c.Cart.RemoveItem)).Methods("POST")
	router.Handle("/cart/clear", guard(middleware.GateBuyerOnly, c.Cart.ClearCart)).Methods("POST")

	// Order Routes
	router.Handle("/orders", guard(middleware.GateBuyerOnly, c.Order.GetOrders)).Methods("GET")
	router.Handle("/orders", guard(middleware.GateBuyerOnly, c.Order.PlaceOrder)).Methods("POST")
	router.Handle("/orders/{id:[0-9]+}", guard(middleware.GateBuyerOnly, c.Order.GetOrderByID)).Methods("GET")

	// Seller routes
	router.Handle("/seller", guard(middleware.GateSellerOnly, c.Seller.Dashboard)).Methods("GET")
	router.Handle("/seller/products", guard(middleware.GateSellerOnly, c.Seller.CreateProduct)).Methods("POST")
	router.Handle("/seller/products/{id:[0-9]+}", guard(middleware.GateSellerOnly, c.Seller.UpdateProduct)).Methods("POST")
	router.Handle("/seller/products/{id:[0-9]+}/delete", guard(middleware.GateSellerOnly, c.Seller.DeleteProduct)).Methods("POST")
}
