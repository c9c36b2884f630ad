package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"chatsa-backend/config"
)

// EmbedScript serves the widget bootstrap script with the configured
// public domain inlined. The chatbot id is read from the embedding page's
// script tag attributes.
func EmbedScript(cfg *config.Config) fiber.Handler {
	script := fmt.Sprintf(`(function(){
var s=document.currentScript;
var id=s&&s.getAttribute("data-chatbot-id");
if(!id){console.error("chatsa: missing data-chatbot-id");return;}
var f=document.createElement("iframe");
f.src="https://%s/widget/"+id;
f.style.cssText="position:fixed;bottom:16px;right:16px;width:380px;height:560px;border:0;z-index:2147483647;";
document.body.appendChild(f);
})();
`, cfg.PublicDomain)

	return func(c *fiber.Ctx) error {
		c.Set("Content-Type", "application/javascript; charset=utf-8")
		c.Set("Cache-Control", "public, max-age=3600")
		return c.SendString(script)
	}
}
