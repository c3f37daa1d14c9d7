package loader_test

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/afero"

	"github.com/cyrhla/loader"
	"github.com/cyrhla/loader/normalizer"
)

func ExampleLoad() {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "config/app.yml", []byte("imports: [services.xml]\nparameters:\n  locale: en\n"), 0o644)
	_ = afero.WriteFile(fs, "config/services.xml", []byte(`<container>
    <services>
        <service id="mailer" class="Mailer">
            <argument>%locale%</argument>
        </service>
    </services>
</container>`), 0o644)

	result, err := loader.Load("config/app.yml",
		loader.WithFs(fs),
		loader.WithXMLNormalizer(normalizer.ContainerXML{}),
		loader.WithNormalizer(normalizer.ContainerNormalizer{}),
	)
	if err != nil {
		log.Fatal(err)
	}

	keys := make([]string, 0, len(result.Document))
	for k := range result.Document {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println(keys)
	fmt.Println(result.Sources)
	// Output:
	// [imports parameters.locale services.mailer]
	// [config/app.yml config/services.xml]
}
