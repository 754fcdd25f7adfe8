package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the post list.
	RouteRoot = "/"
	// RouteRegister is the sign-up route.
	RouteRegister = "/register"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RoutePost shows a post and accepts comments.
	RoutePost = "/post/{id}"
	// RouteAbout is the about page.
	RouteAbout = "/about"
	// RouteContact is the contact page.
	RouteContact = "/contact"
	// RouteNewPost is the admin create-post route.
	RouteNewPost = "/new-post"
	// RouteEditPost is the admin edit-post route.
	RouteEditPost = "/edit-post/{id}"
	// RouteDeletePost is the admin delete-post route.
	RouteDeletePost = "/delete/{id}"
	// RouteHealth is the liveness probe.
	RouteHealth = "/healthz"
	// RouteStatic serves embedded assets.
	RouteStatic = "/static/*"
)

// Redirect targets.
const (
	redirectRoot  = "/"
	redirectLogin = "/login"
)

// User-facing flash messages.
const (
	msgAlreadyRegistered = "You have already signed up with that email, log in instead"
	msgUnknownEmail      = "That email is not registered, please try again."
	msgBadPassword       = "Incorrect password, please try again."
	msgDuplicateTitle    = "A post with this title already exists."
)

// Template names.
const (
	tmplIndex    = "index"
	tmplPost     = "post"
	tmplLogin    = "login"
	tmplRegister = "register"
	tmplMakePost = "make-post"
	tmplPage     = "page"
)
